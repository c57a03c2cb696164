package walkthrough_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/labtour/pkg/domain"
	"github.com/aretw0/labtour/pkg/walkthrough"
	"pgregory.net/rapid"
)

func genCatalog(t *rapid.T) *domain.Catalog {
	n := rapid.IntRange(1, 12).Draw(t, "len")
	scenes := make([]domain.Scene, n)
	for i := range scenes {
		scenes[i] = domain.Scene{Name: fmt.Sprintf("scene-%d", i)}
	}
	return domain.MustCatalog(scenes...)
}

func TestProperty_JumpTo(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		catalog := genCatalog(t)
		ctrl := walkthrough.New(catalog)
		state := ctrl.Start("p")
		ctx := context.Background()

		start := rapid.IntRange(0, catalog.Len()-1).Draw(t, "start")
		ctrl.JumpTo(ctx, state, start)

		target := rapid.IntRange(-5, catalog.Len()+5).Draw(t, "target")
		applied := ctrl.JumpTo(ctx, state, target)

		if catalog.Contains(target) {
			if !applied || state.CurrentIndex != target {
				t.Fatalf("valid jump to %d not applied: index=%d", target, state.CurrentIndex)
			}
		} else if applied || state.CurrentIndex != start {
			t.Fatalf("invalid jump to %d changed index from %d to %d", target, start, state.CurrentIndex)
		}
	})
}

func TestProperty_AdvanceReachesEnd(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		catalog := genCatalog(t)
		ctrl := walkthrough.New(catalog)
		state := ctrl.Start("p")
		ctx := context.Background()

		for i := 0; i < catalog.Len()-1; i++ {
			if ctrl.Advance(ctx, state) != walkthrough.OutcomeMoved {
				t.Fatalf("advance %d reported completion early", i)
			}
		}
		if state.CurrentIndex != catalog.Len()-1 {
			t.Fatalf("expected last index %d, got %d", catalog.Len()-1, state.CurrentIndex)
		}
		if ctrl.Advance(ctx, state) != walkthrough.OutcomeComplete {
			t.Fatal("expected completion at last scene")
		}
		if state.CurrentIndex != catalog.Len()-1 {
			t.Fatalf("completion moved index to %d", state.CurrentIndex)
		}
	})
}

// TestProperty_Model drives the controller with random operations and checks
// it against a trivial model of the walkthrough.
func TestProperty_Model(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		catalog := genCatalog(t)
		ctrl := walkthrough.New(catalog)
		state := ctrl.Start("model")
		ctx := context.Background()

		modelIndex := 0
		modelGlobal := map[string]any{}
		n := catalog.Len()

		t.Repeat(map[string]func(*rapid.T){
			"advance": func(t *rapid.T) {
				out := ctrl.Advance(ctx, state)
				if modelIndex == n-1 {
					if out != walkthrough.OutcomeComplete {
						t.Fatalf("expected complete at %d", modelIndex)
					}
					return
				}
				modelIndex++
			},
			"retreat": func(t *rapid.T) {
				ctrl.Retreat(ctx, state)
				if modelIndex > 0 {
					modelIndex--
				}
			},
			"jump": func(t *rapid.T) {
				i := rapid.IntRange(-3, n+3).Draw(t, "index")
				ctrl.JumpTo(ctx, state, i)
				if i >= 0 && i < n {
					modelIndex = i
				}
			},
			"update": func(t *rapid.T) {
				k := rapid.SampledFrom([]string{"a", "b", domain.KeyApplicationMethod}).Draw(t, "key")
				v := rapid.String().Draw(t, "value")
				ctrl.UpdateState(ctx, state, k, v)
				modelGlobal[k] = v
			},
			"reset": func(t *rapid.T) {
				ctrl.Reset(ctx, state)
				modelIndex = 0
				modelGlobal = map[string]any{}
			},
			"": func(t *rapid.T) {
				if state.CurrentIndex != modelIndex {
					t.Fatalf("index: got %d, model %d", state.CurrentIndex, modelIndex)
				}
				if len(state.GlobalState) != len(modelGlobal) {
					t.Fatalf("global state size: got %d, model %d", len(state.GlobalState), len(modelGlobal))
				}
				for k, v := range modelGlobal {
					if state.GlobalState[k] != v {
						t.Fatalf("global[%s]: got %v, model %v", k, state.GlobalState[k], v)
					}
				}
				if p := ctrl.Progress(state); p <= 0 || p > 1 {
					t.Fatalf("progress out of range: %v", p)
				}
			},
		})
	})
}
