package walkthrough

import "github.com/aretw0/labtour/pkg/domain"

// View is the read model handed to presentation adapters.
type View struct {
	SessionID   string         `json:"session_id"`
	Index       int            `json:"index"`
	Step        int            `json:"step"`
	Total       int            `json:"total"`
	Scene       domain.Scene   `json:"scene"`
	Title       string         `json:"title"`
	Progress    float64        `json:"progress"`
	First       bool           `json:"first"`
	Last        bool           `json:"last"`
	GlobalState map[string]any `json:"global_state"`
	Choices     domain.Choices `json:"choices"`
	Panel       *Panel         `json:"panel,omitempty"`
}

// View builds the read model for the state. The global state map is copied.
func (c *Controller) View(state *domain.State) View {
	scene := c.Current(state)
	idx := state.CurrentIndex
	if !c.catalog.Contains(idx) {
		idx = 0
	}

	global := make(map[string]any, len(state.GlobalState))
	for k, v := range state.GlobalState {
		global[k] = v
	}

	v := View{
		SessionID:   state.SessionID,
		Index:       idx,
		Step:        idx + 1,
		Total:       c.catalog.Len(),
		Scene:       scene,
		Title:       scene.DisplayTitle(),
		Progress:    c.Progress(state),
		First:       idx == 0,
		Last:        idx == c.catalog.Len()-1,
		GlobalState: global,
		Choices:     domain.ChoicesFrom(global),
	}
	if panel, ok := PanelFor(scene, global); ok {
		v.Panel = &panel
	}
	return v
}
