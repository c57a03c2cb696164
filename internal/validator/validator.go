package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/labtour/pkg/domain"
)

// Report holds the findings for a catalog.
type Report struct {
	Errors   []string
	Warnings []string
}

// Err folds the errors of the report into one error, or nil.
func (r Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("found %d errors:\n- %s", len(r.Errors), strings.Join(r.Errors, "\n- "))
}

// ValidateCatalog checks a loaded catalog beyond what NewCatalog enforces:
// every scene needs a description and a known kind may appear only once.
// Scenes without a panel (unknown kind) or without an icon are reported as
// warnings.
func ValidateCatalog(catalog *domain.Catalog) Report {
	var report Report
	seen := make(map[domain.SceneKind]string)

	for i, scene := range catalog.Scenes() {
		ref := fmt.Sprintf("#%d '%s'", i+1, scene.Name)

		if strings.TrimSpace(scene.Description) == "" {
			report.Errors = append(report.Errors, fmt.Sprintf("scene %s has no description", ref))
		}

		if scene.Kind == domain.KindUnknown {
			report.Warnings = append(report.Warnings, fmt.Sprintf("scene %s has no interactive panel (unknown kind)", ref))
		} else if prev, ok := seen[scene.Kind]; ok {
			report.Errors = append(report.Errors, fmt.Sprintf("scene %s repeats kind %s of %s", ref, scene.Kind, prev))
		} else {
			seen[scene.Kind] = ref
		}

		if strings.TrimSpace(scene.Icon) == "" {
			report.Warnings = append(report.Warnings, fmt.Sprintf("scene %s has no icon", ref))
		}
	}

	return report
}
