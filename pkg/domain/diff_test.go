package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func intPtr(i int) *int { return &i }

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		old      *State
		new      *State
		wantDiff *StateDiff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new: &State{
				SessionID:    "sess-1",
				CurrentIndex: 0,
				GlobalState:  map[string]any{"a": 1},
				History:      []int{0},
			},
			wantDiff: &StateDiff{
				SessionID:    "sess-1",
				CurrentIndex: intPtr(0),
				GlobalState:  map[string]any{"a": 1},
				History:      &HistoryDelta{Appended: []int{0}},
			},
		},
		{
			name: "No Changes",
			old: &State{
				SessionID:   "sess-1",
				GlobalState: map[string]any{"a": 1},
				History:     []int{0},
			},
			new: &State{
				SessionID:   "sess-1",
				GlobalState: map[string]any{"a": 1},
				History:     []int{0},
			},
			wantDiff: nil,
		},
		{
			name: "Advance",
			old: &State{
				SessionID:   "sess-1",
				GlobalState: map[string]any{},
				History:     []int{0},
			},
			new: &State{
				SessionID:    "sess-1",
				CurrentIndex: 1,
				GlobalState:  map[string]any{},
				History:      []int{0, 1},
			},
			wantDiff: &StateDiff{
				SessionID:    "sess-1",
				CurrentIndex: intPtr(1),
				History:      &HistoryDelta{Appended: []int{1}},
			},
		},
		{
			name: "Global State Update",
			old: &State{
				SessionID:    "sess-1",
				CurrentIndex: 1,
				GlobalState:  map[string]any{"keep": true, "gone": 1},
			},
			new: &State{
				SessionID:    "sess-1",
				CurrentIndex: 1,
				GlobalState:  map[string]any{"keep": true, KeyApplicationMethod: "Foliar Spray"},
			},
			wantDiff: &StateDiff{
				SessionID:   "sess-1",
				GlobalState: map[string]any{KeyApplicationMethod: "Foliar Spray", "gone": nil},
			},
		},
		{
			name: "Reset Rewrites History",
			old: &State{
				SessionID:    "sess-1",
				CurrentIndex: 3,
				GlobalState:  map[string]any{KeyApplicationMethod: "Seed Coating"},
				History:      []int{0, 1, 2, 3},
			},
			new: &State{
				SessionID:   "sess-1",
				GlobalState: map[string]any{},
				History:     []int{0},
			},
			wantDiff: &StateDiff{
				SessionID:    "sess-1",
				CurrentIndex: intPtr(0),
				GlobalState:  map[string]any{KeyApplicationMethod: nil},
				History:      &HistoryDelta{Replaced: []int{0}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if !reflect.DeepEqual(got, tt.wantDiff) {
				gotJSON, _ := json.Marshal(got)
				wantJSON, _ := json.Marshal(tt.wantDiff)
				t.Errorf("Diff() mismatch\n got: %s\nwant: %s", gotJSON, wantJSON)
			}
		})
	}
}

func TestDiff_NilNew(t *testing.T) {
	if d := Diff(NewState("x"), nil); d != nil {
		t.Errorf("expected nil diff, got %+v", d)
	}
}

func TestStateDiff_JSONOmitsUnchanged(t *testing.T) {
	d := Diff(
		&State{SessionID: "s", CurrentIndex: 2, GlobalState: map[string]any{}},
		&State{SessionID: "s", CurrentIndex: 2, GlobalState: map[string]any{"k": "v"}},
	)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	body := string(data)
	if strings.Contains(body, "current_index") {
		t.Errorf("unchanged index should be omitted: %s", body)
	}
	if !strings.Contains(body, `"k":"v"`) {
		t.Errorf("expected global state delta: %s", body)
	}
}
