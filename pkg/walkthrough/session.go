package walkthrough

import (
	"context"
	"sync"

	"github.com/aretw0/labtour/pkg/domain"
)

// Session owns a single State and serializes every operation on it.
// Use it when the walkthrough is driven from more than one goroutine
// (e.g. a UI loop and a background deep link handler).
type Session struct {
	mu    sync.Mutex
	ctrl  *Controller
	state *domain.State
}

// NewSession wraps state. If state is nil a fresh one is started.
func NewSession(ctrl *Controller, sessionID string, state *domain.State) *Session {
	if state == nil {
		state = ctrl.Start(sessionID)
	}
	return &Session{ctrl: ctrl, state: state}
}

// Advance moves forward or reports completion.
func (s *Session) Advance(ctx context.Context) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Advance(ctx, s.state)
}

// Retreat moves backward, staying at the first scene.
func (s *Session) Retreat(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Retreat(ctx, s.state)
}

// JumpTo moves to index when valid.
func (s *Session) JumpTo(ctx context.Context, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.JumpTo(ctx, s.state, index)
}

// UpdateState records a choice.
func (s *Session) UpdateState(ctx context.Context, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.UpdateState(ctx, s.state, key, value)
}

// Reset clears the index and global state together.
func (s *Session) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.Reset(ctx, s.state)
}

// View returns the read model of the current state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.View(s.state)
}

// Snapshot returns a deep copy of the owned state, e.g. for persistence.
func (s *Session) Snapshot() *domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot()
}
