package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventSceneEnter  EventType = "scene_enter"
	EventSceneLeave  EventType = "scene_leave"
	EventComplete    EventType = "walkthrough_complete"
	EventStateUpdate EventType = "state_update"
	EventReset       EventType = "reset"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// SceneEvent represents entering, leaving or finishing a scene.
type SceneEvent struct {
	EventBase
	Index int       `json:"index"`
	Scene string    `json:"scene"`
	Kind  SceneKind `json:"kind"`
}

// UpdateEvent represents a write to the global state.
type UpdateEvent struct {
	EventBase
	Index int    `json:"index"`
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// LifecycleHooks defines callbacks for walkthrough observability.
// Every field is optional.
type LifecycleHooks struct {
	OnSceneEnter  func(context.Context, *SceneEvent)
	OnSceneLeave  func(context.Context, *SceneEvent)
	OnComplete    func(context.Context, *SceneEvent)
	OnStateUpdate func(context.Context, *UpdateEvent)
	OnReset       func(context.Context, *SceneEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnSceneEnter:  chainScene(h.OnSceneEnter, other.OnSceneEnter),
		OnSceneLeave:  chainScene(h.OnSceneLeave, other.OnSceneLeave),
		OnComplete:    chainScene(h.OnComplete, other.OnComplete),
		OnStateUpdate: chainUpdate(h.OnStateUpdate, other.OnStateUpdate),
		OnReset:       chainScene(h.OnReset, other.OnReset),
	}
}

func chainScene(a, b func(context.Context, *SceneEvent)) func(context.Context, *SceneEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *SceneEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainUpdate(a, b func(context.Context, *UpdateEvent)) func(context.Context, *UpdateEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *UpdateEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
