package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SceneKind is the enumerated identity of a known lab scene.
// Interactive content is dispatched on the kind instead of on the scene title.
type SceneKind int

const (
	KindUnknown SceneKind = iota
	KindContaminatedFarm
	KindZincApplication
	KindCellularAbsorption
	KindMetalCompetition
	KindHealthyGrowth
	KindHarvestResults
	KindResearchImpact
)

var kindNames = map[SceneKind]string{
	KindUnknown:            "unknown",
	KindContaminatedFarm:   "contaminated_farm",
	KindZincApplication:    "zinc_application",
	KindCellularAbsorption: "cellular_absorption",
	KindMetalCompetition:   "metal_competition",
	KindHealthyGrowth:      "healthy_growth",
	KindHarvestResults:     "harvest_results",
	KindResearchImpact:     "research_impact",
}

// AllKinds lists every known scene kind, excluding KindUnknown, in lab order.
func AllKinds() []SceneKind {
	return []SceneKind{
		KindContaminatedFarm,
		KindZincApplication,
		KindCellularAbsorption,
		KindMetalCompetition,
		KindHealthyGrowth,
		KindHarvestResults,
		KindResearchImpact,
	}
}

// String returns the snake_case identifier of the kind.
func (k SceneKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseSceneKind accepts either the snake_case identifier ("zinc_application")
// or the human title ("Zinc Application").
func ParseSceneKind(s string) (SceneKind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, " ", "_")
	norm = strings.ReplaceAll(norm, "-", "_")
	for k, name := range kindNames {
		if name == norm {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown scene kind %q", s)
}

// KindOf resolves the kind for a scene title. Unrecognised titles map to KindUnknown.
func KindOf(title string) SceneKind {
	k, err := ParseSceneKind(title)
	if err != nil {
		return KindUnknown
	}
	return k
}

// MarshalJSON encodes the kind as its identifier.
func (k SceneKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind identifier. Unknown identifiers decode to KindUnknown.
func (k *SceneKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*k = KindOf(s)
	return nil
}

// KeyApplicationMethod is the global state key written by the Zinc Application scene.
const KeyApplicationMethod = "applicationMethod"

// ApplicationMethod is the way zinc is applied to the contaminated soil.
type ApplicationMethod string

const (
	FoliarSpray   ApplicationMethod = "Foliar Spray"
	SoilAmendment ApplicationMethod = "Soil Amendment"
	SeedCoating   ApplicationMethod = "Seed Coating"
)

// ApplicationMethods returns the options offered by the Zinc Application scene, in display order.
func ApplicationMethods() []ApplicationMethod {
	return []ApplicationMethod{FoliarSpray, SoilAmendment, SeedCoating}
}

// ParseApplicationMethod validates s against the known methods.
func ParseApplicationMethod(s string) (ApplicationMethod, error) {
	for _, m := range ApplicationMethods() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q is not an application method", ErrInvalidChoice, s)
}

// Choices is the typed view over the well-known keys of GlobalState.
type Choices struct {
	ApplicationMethod ApplicationMethod `json:"applicationMethod,omitempty"`
}

// ChoicesFrom extracts the typed choices from a global state map.
// Values of the wrong type or outside the allowed set are ignored.
func ChoicesFrom(global map[string]any) Choices {
	var c Choices
	if raw, ok := global[KeyApplicationMethod].(string); ok {
		if m, err := ParseApplicationMethod(raw); err == nil {
			c.ApplicationMethod = m
		}
	}
	return c
}

// TypedKeys lists the global state keys with a typed vocabulary.
func TypedKeys() []string {
	return []string{KeyApplicationMethod}
}

// ValidateChoice checks a global state update against the typed vocabulary.
// Keys without a known schema are accepted as-is.
func ValidateChoice(key string, value any) error {
	switch key {
	case KeyApplicationMethod:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidChoice, key, value)
		}
		_, err := ParseApplicationMethod(s)
		return err
	default:
		return nil
	}
}
