package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/labtour/pkg/walkthrough"
)

const progressWidth = 20

// SceneMarkdown renders the view of the current scene, its panel and the
// recorded choices as markdown.
func SceneMarkdown(v walkthrough.View) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", v.Title)
	fmt.Fprintf(&sb, "`%s` scene %d of %d (%d%%)\n\n", ProgressBar(v.Progress, progressWidth), v.Step, v.Total, int(v.Progress*100+0.5))
	if v.Scene.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", v.Scene.Description)
	}

	if v.Panel != nil {
		writePanel(&sb, *v.Panel)
	}

	if len(v.GlobalState) > 0 {
		sb.WriteString("### Your choices\n\n")
		for _, key := range slices.Sorted(maps.Keys(v.GlobalState)) {
			fmt.Fprintf(&sb, "- **%s**: %v\n", key, v.GlobalState[key])
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func writePanel(sb *strings.Builder, p walkthrough.Panel) {
	if p.Heading != "" {
		fmt.Fprintf(sb, "## %s\n\n", p.Heading)
	}
	for _, r := range p.Readings {
		fmt.Fprintf(sb, "- %s: **%s**\n", r.Label, r.Value)
	}
	for i, o := range p.Options {
		mark := " "
		if o.Selected {
			mark = "x"
		}
		fmt.Fprintf(sb, "%d. [%s] %s\n", i+1, mark, o.Label)
	}
	for _, m := range p.Timeline {
		fmt.Fprintf(sb, "- **%s** %s\n", m.At, m.Description)
	}
	for _, b := range p.Bars {
		fmt.Fprintf(sb, "- %-8s `%s` %s\n", b.Label, ProgressBar(float64(b.Percent)/100, progressWidth), b.Delta)
	}
	for _, m := range p.Metrics {
		fmt.Fprintf(sb, "- %s: **%s**\n", m.Label, m.Value)
	}
	if p.Notice != nil {
		fmt.Fprintf(sb, "> **%s**\n> %s\n", p.Notice.Title, p.Notice.Body)
	}
	sb.WriteString("\n")
}

// ProgressBar draws a fixed width bar for a fraction in [0, 1].
func ProgressBar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction*float64(width) + 0.5)
	return strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
}
