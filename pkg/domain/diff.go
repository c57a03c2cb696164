package domain

import (
	"reflect"
	"slices"
)

// StateDiff represents the changes between two states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	// CurrentIndex is set when the active scene changed.
	CurrentIndex *int `json:"current_index,omitempty"`

	// GlobalState contains only changed, added or deleted keys.
	// For deletions, the key is present with a nil value.
	GlobalState map[string]any `json:"global_state,omitempty"`

	// History describes how the visit history changed.
	History *HistoryDelta `json:"history,omitempty"`
}

// HistoryDelta represents changes to the history stack.
// Appended is used for the common append-only case; Replaced carries the whole
// history when it was rewritten (e.g. after a reset).
type HistoryDelta struct {
	Appended []int `json:"appended,omitempty"`
	Replaced []int `json:"replaced,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{
		SessionID: newState.SessionID,
	}

	if oldState == nil || oldState.CurrentIndex != newState.CurrentIndex {
		idx := newState.CurrentIndex
		diff.CurrentIndex = &idx
	}

	diff.GlobalState = diffGlobal(oldState, newState)
	diff.History = diffHistory(oldState, newState)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffGlobal(old *State, new *State) map[string]any {
	delta := make(map[string]any)

	if old == nil {
		for k, v := range new.GlobalState {
			delta[k] = v
		}
		if len(delta) == 0 {
			return nil
		}
		return delta
	}

	for k, newVal := range new.GlobalState {
		oldVal, exists := old.GlobalState[k]
		if !exists || !reflect.DeepEqual(oldVal, newVal) {
			delta[k] = newVal
		}
	}

	for k := range old.GlobalState {
		if _, exists := new.GlobalState[k]; !exists {
			delta[k] = nil
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

func diffHistory(old *State, new *State) *HistoryDelta {
	if old == nil {
		if len(new.History) == 0 {
			return nil
		}
		return &HistoryDelta{Appended: slices.Clone(new.History)}
	}

	oldLen, newLen := len(old.History), len(new.History)
	switch {
	case newLen == oldLen && slices.Equal(old.History, new.History):
		return nil
	case newLen > oldLen && slices.Equal(old.History, new.History[:oldLen]):
		return &HistoryDelta{Appended: slices.Clone(new.History[oldLen:])}
	default:
		replaced := slices.Clone(new.History)
		if replaced == nil {
			replaced = []int{}
		}
		return &HistoryDelta{Replaced: replaced}
	}
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.CurrentIndex == nil &&
		len(d.GlobalState) == 0 &&
		d.History == nil
}
