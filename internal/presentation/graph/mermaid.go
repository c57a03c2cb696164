package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/labtour/pkg/domain"
)

// GraphOverlay contains session data to visualize on the graph.
type GraphOverlay struct {
	// Visited are scene indices already seen by the session.
	Visited []int
	// Current is the active scene index. Negative means none.
	Current int
}

// OverlayFor builds an overlay from a session state.
func OverlayFor(state *domain.State) *GraphOverlay {
	if state == nil {
		return nil
	}
	return &GraphOverlay{Visited: state.History, Current: state.CurrentIndex}
}

// GenerateMermaid produces a Mermaid flowchart for the catalog.
// Scenes are chained in progression order and shaped by role:
//   - First scene: ((Circle))
//   - Scene that asks for a choice: [/Parallelogram/]
//   - Last scene: ([Stadium])
//   - Default: [Rectangle]
//
// Overlay styles (visited/current) are appended when an overlay is given.
func GenerateMermaid(catalog *domain.Catalog, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	scenes := catalog.Scenes()
	last := len(scenes) - 1

	for i, scene := range scenes {
		opener, closer := "[", "]"
		switch {
		case i == 0:
			opener, closer = "((", "))"
		case scene.Kind == domain.KindZincApplication:
			opener, closer = "[/", "/]"
		case i == last:
			opener, closer = "([", "])"
		}

		label := escapeLabel(scene.DisplayTitle())
		if scene.Icon != "" {
			label = fmt.Sprintf("%s <br/> %s", label, escapeLabel(scene.Icon))
		}
		fmt.Fprintf(&sb, "    %s%s\"%d. %s\"%s\n", nodeID(i), opener, i+1, label, closer)
	}

	for i := 0; i < last; i++ {
		fmt.Fprintf(&sb, "    %s --> %s\n", nodeID(i), nodeID(i+1))
	}
	fmt.Fprintf(&sb, "    %s -. reset .-> %s\n", nodeID(last), nodeID(0))

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[int]bool)
		for _, idx := range overlay.Visited {
			if idx < 0 || idx > last || seen[idx] {
				continue
			}
			seen[idx] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(idx))
		}
		if overlay.Current >= 0 && overlay.Current <= last {
			fmt.Fprintf(&sb, "    class %s current;\n", nodeID(overlay.Current))
		}
	}

	return sb.String()
}

func nodeID(index int) string {
	return fmt.Sprintf("s%d", index)
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
