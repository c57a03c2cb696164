/*
Package dsl provides a fluent builder for walkthrough catalogs.

It lets a catalog be declared in Go instead of a YAML file or a markdown
directory, which is handy for embedded defaults and tests.

Example usage:

	b := dsl.New()

	b.Add("Contaminated Farm").
		Icon("warning").
		Describe("Explore a farm with heavy metal contamination in the soil").
		Then("Zinc Application").
		Icon("flask").
		Describe("Apply zinc-based treatments to mitigate contamination")

	loader, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}
	// loader implements ports.CatalogLoader
*/
package dsl
