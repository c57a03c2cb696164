package loam

// SceneMetadata is the frontmatter of a scene document.
// It uses "mapstructure" tags to match the YAML/JSON keys.
type SceneMetadata struct {
	// Name overrides the scene name derived from the file name.
	Name  string `json:"name" mapstructure:"name"`
	Title string `json:"title" mapstructure:"title"`
	Icon  string `json:"icon" mapstructure:"icon"`

	// Kind pins the scene to a known kind when the title does not identify it.
	Kind string `json:"kind" mapstructure:"kind"`

	// Order positions the scene in the walkthrough. Strict mode decodes numbers
	// as json.Number, so the raw value is kept and parsed by the loader.
	Order any `json:"order" mapstructure:"order"`

	// Description is used when the document has no body.
	Description string `json:"description" mapstructure:"description"`
}
