package walkthrough_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/aretw0/labtour/pkg/domain"
	"github.com/aretw0/labtour/pkg/walkthrough"
	"github.com/stretchr/testify/assert"
)

func TestSession_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	sess := walkthrough.NewSession(walkthrough.New(labCatalog()), "shared", nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 4 {
			case 0:
				sess.Advance(ctx)
			case 1:
				sess.Retreat(ctx)
			case 2:
				sess.UpdateState(ctx, fmt.Sprintf("k%d", i), i)
			case 3:
				sess.JumpTo(ctx, i%7)
			}
			_ = sess.View()
		}(i)
	}
	wg.Wait()

	sess.Reset(ctx)
	snap := sess.Snapshot()
	assert.Equal(t, 0, snap.CurrentIndex)
	assert.Empty(t, snap.GlobalState)
}

func TestSession_WrapsExistingState(t *testing.T) {
	state := domain.NewState("existing")
	state.CurrentIndex = 5
	sess := walkthrough.NewSession(walkthrough.New(labCatalog()), "ignored", state)

	v := sess.View()
	assert.Equal(t, "existing", v.SessionID)
	assert.Equal(t, 5, v.Index)

	snap := sess.Snapshot()
	snap.CurrentIndex = 0
	assert.Equal(t, 5, sess.View().Index)
}
