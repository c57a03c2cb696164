package walkthrough

import (
	"context"
	"strconv"
	"strings"

	"github.com/aretw0/labtour/pkg/domain"
)

// ParseStartIndex validates an externally supplied scene index (e.g. a deep link
// parameter) against a catalog of length n. Empty, malformed or out of range
// values yield ok == false.
func ParseStartIndex(raw string, n int) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	if idx < 0 || idx >= n {
		return 0, false
	}
	return idx, true
}

// ApplyStartParam jumps to the index carried by raw when it is valid and
// ignores it otherwise. It reports whether the jump was applied.
func (c *Controller) ApplyStartParam(ctx context.Context, state *domain.State, raw string) bool {
	idx, ok := ParseStartIndex(raw, c.catalog.Len())
	if !ok {
		if strings.TrimSpace(raw) != "" {
			c.logger.Debug("ignoring invalid start parameter", "session_id", state.SessionID, "raw", raw)
		}
		return false
	}
	return c.JumpTo(ctx, state, idx)
}
