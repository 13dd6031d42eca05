package filtering

import (
	"fmt"

	"github.com/spigell/schememitra/internal/schemes"
)

// Options lists the selectable values of every categorical filter, each
// starting with its sentinel.
type Options struct {
	Ministries    []string `json:"ministries"`
	Beneficiaries []string `json:"beneficiaries"`
	Categories    []string `json:"categories"`
}

func OptionsFor(catalog *schemes.Catalog) Options {
	return Options{
		Ministries:    append([]string{AllMinistries}, catalog.Ministries()...),
		Beneficiaries: append([]string{AllTypes}, catalog.Beneficiaries()...),
		Categories:    append([]string{AllCategories}, schemes.CategoryNames()...),
	}
}

// EmptyHint is shown instead of a list when nothing matched.
const EmptyHint = "No schemes found. Try adjusting your filters or search terms."

// Summary is the result headline shown above a filtered list.
func Summary(n int) string {
	if n == 0 {
		return EmptyHint
	}
	return fmt.Sprintf("Found %d scheme(s) matching your criteria", n)
}
