package domain_test

import (
	"context"
	"testing"

	"github.com/aretw0/labtour/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewState(t *testing.T) {
	s := domain.NewState("abc")
	assert.Equal(t, "abc", s.SessionID)
	assert.Equal(t, 0, s.CurrentIndex)
	assert.Empty(t, s.GlobalState)
	assert.NotNil(t, s.GlobalState)
	assert.Equal(t, []int{0}, s.History)
}

func TestState_Snapshot(t *testing.T) {
	s := domain.NewState("abc")
	s.GlobalState["k"] = "v"

	snap := s.Snapshot()
	snap.GlobalState["k"] = "changed"
	snap.History = append(snap.History, 1)
	snap.CurrentIndex = 4

	assert.Equal(t, "v", s.GlobalState["k"])
	assert.Equal(t, []int{0}, s.History)
	assert.Equal(t, 0, s.CurrentIndex)

	var nilState *domain.State
	assert.Nil(t, nilState.Snapshot())
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{
		OnSceneEnter: func(context.Context, *domain.SceneEvent) { calls = append(calls, "a") },
	}
	b := domain.LifecycleHooks{
		OnSceneEnter:  func(context.Context, *domain.SceneEvent) { calls = append(calls, "b") },
		OnStateUpdate: func(context.Context, *domain.UpdateEvent) { calls = append(calls, "update") },
	}

	merged := a.Merge(b)
	merged.OnSceneEnter(context.Background(), &domain.SceneEvent{})
	merged.OnStateUpdate(context.Background(), &domain.UpdateEvent{})
	assert.Nil(t, merged.OnReset)
	assert.Equal(t, []string{"a", "b", "update"}, calls)
}
