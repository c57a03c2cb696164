package domain

import "time"

// State represents the snapshot of one walkthrough session.
type State struct {
	// SessionID identifies the walkthrough session.
	SessionID string `json:"session_id"`

	// CurrentIndex is the position of the active scene, 0 <= CurrentIndex < catalog length.
	CurrentIndex int `json:"current_index"`

	// GlobalState holds the choices accumulated across scenes (e.g. applicationMethod).
	// Entries survive navigation and are only cleared by a reset.
	GlobalState map[string]any `json:"global_state"`

	// History tracks the scene indices visited since the last reset.
	History []int `json:"history,omitempty"`

	// UpdatedAt is stamped by the session manager on every save.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewState creates a clean state positioned at the first scene.
func NewState(sessionID string) *State {
	return &State{
		SessionID:    sessionID,
		CurrentIndex: 0,
		GlobalState:  make(map[string]any),
		History:      []int{0},
	}
}

// Snapshot creates a deep copy of the state.
// Nested maps and slices inside GlobalState values are shared.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}

	out := *s
	out.GlobalState = make(map[string]any, len(s.GlobalState))
	for k, v := range s.GlobalState {
		out.GlobalState[k] = v
	}
	if s.History != nil {
		out.History = make([]int, len(s.History))
		copy(out.History, s.History)
	}
	return &out
}
