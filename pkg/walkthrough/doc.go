/*
Package walkthrough implements the guided multi-scene walkthrough controller.

The Controller moves a domain.State through a domain.Catalog: forward with
Advance (which reports completion at the last scene instead of wrapping),
backward with Retreat (which stays at the first scene), and directly with
JumpTo (which ignores indices outside the catalog). UpdateState records a
choice in the global state and Reset starts over.

The state is always passed explicitly. A Session couples one State with a
Controller behind a mutex for callers that share it between goroutines.

	ctrl := walkthrough.New(catalog)
	state := ctrl.Start("demo")
	for ctrl.Advance(ctx, state) == walkthrough.OutcomeMoved {
		fmt.Println(ctrl.Current(state).DisplayTitle())
	}
*/
package walkthrough
