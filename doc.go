/*
Package labtour is a headless engine for guided, linear walkthroughs such as the
zinc remediation "virtual lab".

A walkthrough is an ordered catalog of scenes plus a small per-session state: the
index of the current scene and a map of choices made along the way (for example
the zinc application method). Clients render the current scene however they like
and drive the walkthrough with five operations: advance, retreat, jump, update
state and reset. Advancing past the last scene never moves; it reports completion
so the client can decide to exit or start over.

# Architecture

The engine follows a hexagonal layout. pkg/domain holds the catalog, the state
and the scene kinds; pkg/walkthrough applies the operations to an explicitly
passed state; adapters load catalogs (YAML, Loam markdown, Go DSL) and persist
sessions (memory, file, Redis). The same engine is exposed over HTTP, MCP and an
interactive terminal runner.

# Usage

	eng, err := labtour.New("") // built-in lab catalog, in-memory sessions
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	res, err := eng.Start(ctx, "visitor-1", "")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.View.Title) // Contaminated Farm

	eng.Advance(ctx, "visitor-1")
	eng.UpdateState(ctx, "visitor-1", "applicationMethod", "Foliar Spray")

	for {
		res, _ = eng.Advance(ctx, "visitor-1")
		if res.Complete {
			break
		}
	}
	eng.Reset(ctx, "visitor-1")

Catalogs can also be loaded from a file or a directory:

	eng, err := labtour.New("./lab.yaml")
	eng, err := labtour.New("./scenes") // one markdown document per scene
*/
package labtour
