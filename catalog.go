package labtour

import (
	"github.com/aretw0/labtour/pkg/adapters/memory"
	"github.com/aretw0/labtour/pkg/domain"
	"github.com/aretw0/labtour/pkg/dsl"
)

// DefaultName labels the built-in catalog.
const DefaultName = "virtual-lab"

func defaultBuilder() *dsl.Builder {
	b := dsl.New()

	b.Add("Contaminated Farm").
		Title("Contaminated Farm").
		Icon("warning-outline").
		Describe("Observe the effects of heavy metal contamination on agricultural soil and crops.").
		Then("Zinc Application").
		Title("Zinc Application").
		Icon("flask-outline").
		Describe("Learn about different methods of applying zinc to contaminated soils.").
		Then("Cellular Absorption").
		Title("Cellular Absorption").
		Icon("cellular-outline").
		Describe("Understand how zinc is absorbed at the cellular level in plants.").
		Then("Metal Competition").
		Title("Metal Competition").
		Icon("swap-horizontal-outline").
		Describe("Discover how zinc competes with heavy metals for absorption sites.").
		Then("Healthy Growth").
		Title("Healthy Growth").
		Icon("leaf-outline").
		Describe("See the positive effects of zinc treatment on plant health and growth.").
		Then("Harvest Results").
		Title("Harvest Results").
		Icon("nutrition-outline").
		Describe("Analyze the quality and safety of crops after zinc treatment.").
		Then("Research Impact").
		Title("Research Impact").
		Icon("globe-outline").
		Describe("Explore the global impact of this research on agriculture.")

	return b
}

// DefaultScenes returns the seven scenes of the zinc remediation lab.
func DefaultScenes() []domain.Scene {
	return defaultBuilder().Scenes()
}

// DefaultCatalog returns the built-in lab catalog.
func DefaultCatalog() *domain.Catalog {
	return domain.MustCatalog(DefaultScenes()...)
}

// DefaultLoader serves the built-in catalog.
func DefaultLoader() *memory.Loader {
	return memory.NewLoader(DefaultScenes()...)
}
