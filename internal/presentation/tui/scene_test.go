package tui

import (
	"bytes"
	"context"
	"testing"

	"github.com/aretw0/labtour"
	"github.com/aretw0/labtour/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "----", ProgressBar(0, 4))
	assert.Equal(t, "##--", ProgressBar(0.5, 4))
	assert.Equal(t, "####", ProgressBar(1, 4))
	assert.Equal(t, "####", ProgressBar(3, 4))
	assert.Equal(t, "----", ProgressBar(-1, 4))
}

func TestSceneMarkdown(t *testing.T) {
	eng, err := labtour.New("")
	require.NoError(t, err)
	ctx := context.Background()

	res, err := eng.Start(ctx, "md", "1")
	require.NoError(t, err)
	_, err = eng.UpdateState(ctx, "md", domain.KeyApplicationMethod, string(domain.SoilAmendment))
	require.NoError(t, err)

	view, err := eng.View(ctx, "md")
	require.NoError(t, err)
	md := SceneMarkdown(view)

	assert.Equal(t, 1, res.View.Index)
	assert.Contains(t, md, "# Zinc Application")
	assert.Contains(t, md, "scene 2 of 7 (29%)")
	assert.Contains(t, md, "## Application Method")
	assert.Contains(t, md, "1. [ ] Foliar Spray")
	assert.Contains(t, md, "2. [x] Soil Amendment")
	assert.Contains(t, md, "- **applicationMethod**: Soil Amendment")
}

func TestSceneMarkdown_Notice(t *testing.T) {
	eng, err := labtour.New("")
	require.NoError(t, err)
	res, err := eng.Start(context.Background(), "md", "5")
	require.NoError(t, err)

	md := SceneMarkdown(res.View)
	assert.Contains(t, md, "## Safety Analysis")
	assert.Contains(t, md, "> **Safe for Consumption**")
	assert.NotContains(t, md, "Your choices")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "v1.2.3")
	assert.Contains(t, buf.String(), "virtual lab walkthrough v1.2.3")
}

func TestPlainRenderer(t *testing.T) {
	out, err := PlainRenderer("# hi")
	require.NoError(t, err)
	assert.Equal(t, "# hi", out)
	assert.False(t, IsInteractive(nil))
}
