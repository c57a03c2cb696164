package walkthrough

import "github.com/aretw0/labtour/pkg/domain"

// Panel is the interactive content attached to a known scene kind.
// Only the fields relevant to the kind are populated.
type Panel struct {
	Kind      domain.SceneKind `json:"kind"`
	Heading   string           `json:"heading"`
	Images    []string         `json:"images,omitempty"`
	Readings  []Reading        `json:"readings,omitempty"`
	ChoiceKey string           `json:"choice_key,omitempty"`
	Options   []Choice         `json:"options,omitempty"`
	Timeline  []Milestone      `json:"timeline,omitempty"`
	Bars      []Bar            `json:"bars,omitempty"`
	Metrics   []Metric         `json:"metrics,omitempty"`
	Notice    *Notice          `json:"notice,omitempty"`
}

// Reading is a labelled measurement with a severity level (high, moderate, neutral).
type Reading struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Level string `json:"level"`
}

// Choice is one selectable option; Selected mirrors the global state.
type Choice struct {
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// Milestone is one entry of a timeline.
type Milestone struct {
	At          string `json:"at"`
	Description string `json:"description"`
}

// Bar is a relative comparison; Percent fills the bar, Delta is the displayed change.
type Bar struct {
	Label   string `json:"label"`
	Percent int    `json:"percent"`
	Delta   string `json:"delta"`
}

// Metric is a headline figure, optionally with an icon.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Icon  string `json:"icon,omitempty"`
}

// Notice is a highlighted verdict.
type Notice struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon,omitempty"`
}

// PanelFor returns the interactive content of a scene. The second result is
// false for scenes of unknown kind, which carry only their description.
func PanelFor(scene domain.Scene, global map[string]any) (Panel, bool) {
	switch scene.Kind {
	case domain.KindContaminatedFarm:
		return Panel{
			Kind:    scene.Kind,
			Heading: "Soil Analysis Results",
			Images:  []string{"meniranleaves", "meniran"},
			Readings: []Reading{
				{Label: "Cadmium Level", Value: "2.4 mg/kg (High)", Level: "high"},
				{Label: "Lead Level", Value: "1.8 mg/kg (Moderate)", Level: "moderate"},
				{Label: "pH Level", Value: "5.2 (Acidic)", Level: "neutral"},
			},
		}, true

	case domain.KindZincApplication:
		selected := domain.ChoicesFrom(global).ApplicationMethod
		methods := domain.ApplicationMethods()
		options := make([]Choice, 0, len(methods))
		for _, m := range methods {
			options = append(options, Choice{Label: string(m), Selected: m == selected})
		}
		return Panel{
			Kind:      scene.Kind,
			Heading:   "Application Method",
			Images:    []string{"grinder", "beaker"},
			ChoiceKey: domain.KeyApplicationMethod,
			Options:   options,
		}, true

	case domain.KindCellularAbsorption:
		return Panel{
			Kind:    scene.Kind,
			Heading: "Absorption Timeline",
			Images:  []string{"solvent", "beaker"},
			Timeline: []Milestone{
				{At: "0h", Description: "Zinc applied to soil"},
				{At: "6h", Description: "Root uptake begins"},
				{At: "24h", Description: "Transport to leaves"},
				{At: "48h", Description: "Cellular distribution complete"},
			},
		}, true

	case domain.KindMetalCompetition:
		return Panel{
			Kind:    scene.Kind,
			Heading: "Competitive Binding",
			Images:  []string{"hotplate", "beaker"},
			Bars: []Bar{
				{Label: "Cadmium", Percent: 30, Delta: "-70%"},
				{Label: "Zinc", Percent: 85, Delta: "+85%"},
			},
		}, true

	case domain.KindHealthyGrowth:
		return Panel{
			Kind:    scene.Kind,
			Heading: "Growth Metrics",
			Images:  []string{"filterpaper", "beaker"},
			Metrics: []Metric{
				{Label: "Height Increase", Value: "+42%", Icon: "trending-up"},
				{Label: "Leaf Area", Value: "+38%", Icon: "leaf"},
				{Label: "Root Mass", Value: "+56%", Icon: "git-branch"},
				{Label: "Yield", Value: "+35%", Icon: "nutrition"},
			},
		}, true

	case domain.KindHarvestResults:
		return Panel{
			Kind:    scene.Kind,
			Heading: "Safety Analysis",
			Images:  []string{"zinc", "beaker"},
			Notice: &Notice{
				Title: "Safe for Consumption",
				Body:  "Heavy metal levels are below FDA safety thresholds",
				Icon:  "shield-checkmark",
			},
		}, true

	case domain.KindResearchImpact:
		return Panel{
			Kind:    scene.Kind,
			Heading: "Global Impact",
			Images:  []string{"finalproduct"},
			Metrics: []Metric{
				{Label: "Hectares Treated", Value: "1M+"},
				{Label: "Countries Reached", Value: "50+"},
				{Label: "Yield Improvement", Value: "30%"},
				{Label: "Contamination Reduced", Value: "75%"},
			},
		}, true

	default:
		return Panel{Kind: domain.KindUnknown, Images: []string{"beaker"}}, false
	}
}
