package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/labtour"
	"github.com/aretw0/labtour/internal/logging"
	"github.com/aretw0/labtour/pkg/domain"
	"github.com/aretw0/labtour/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	eng, err := labtour.New("", labtour.WithLifecycleHooks(m.Hooks()))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = eng.Start(ctx, "s", "")
	require.NoError(t, err)
	_, err = eng.Advance(ctx, "s")
	require.NoError(t, err)
	_, err = eng.UpdateState(ctx, "s", domain.KeyApplicationMethod, "Soil Amendment")
	require.NoError(t, err)
	_, err = eng.JumpTo(ctx, "s", 6)
	require.NoError(t, err)
	_, err = eng.Advance(ctx, "s")
	require.NoError(t, err)
	_, err = eng.Reset(ctx, "s")
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SceneVisits.WithLabelValues("Contaminated Farm", "contaminated_farm")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SceneVisits.WithLabelValues("Zinc Application", "zinc_application")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Completions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resets))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StateUpdates.WithLabelValues(domain.KeyApplicationMethod)))

	count, err := testutil.GatherAndCount(reg, "labtour_scene_visits_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestNewMetrics_NilRegistry(t *testing.T) {
	assert.NotPanics(t, func() { observability.NewMetrics(nil) })
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewJSON(&buf, slog.LevelInfo)

	eng, err := labtour.New("", labtour.WithLifecycleHooks(observability.LoggingHooks(logger)))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = eng.Start(ctx, "s", "")
	require.NoError(t, err)
	_, err = eng.UpdateState(ctx, "s", "visitor_email", "someone@example.org")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var msgs []string
	for _, line := range lines {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		msgs = append(msgs, rec["msg"].(string))
	}
	assert.Contains(t, msgs, "scene_enter")
	assert.Contains(t, msgs, "state_update")
	assert.NotContains(t, buf.String(), "someone@example.org")
}
