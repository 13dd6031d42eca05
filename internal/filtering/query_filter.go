package filtering

import (
	"strings"

	"github.com/spigell/schememitra/internal/schemes"
	"github.com/spigell/schememitra/internal/utils"
)

type queryFilter struct {
	query   string
	enabled bool
	reason  string
}

// NewQuery creates a filter keeping schemes whose name, description, ministry
// or beneficiary contains the query, ignoring case. A blank query disables it.
func NewQuery(query string) Filter {
	f := &queryFilter{query: query, enabled: true}
	if strings.TrimSpace(query) == "" {
		f.Disable("empty query")
	}
	return f
}

func (f *queryFilter) Name() string { return "query" }

func (f *queryFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *queryFilter) IsEnabled() bool { return f.enabled }

func (f *queryFilter) Apply(items []schemes.Scheme) ([]schemes.Scheme, Step) {
	return keep(items, func(s schemes.Scheme) bool {
		return utils.ContainsFold(s.Name, f.query) ||
			utils.ContainsFold(s.Description, f.query) ||
			utils.ContainsFold(s.Ministry, f.query) ||
			utils.ContainsFold(s.Beneficiary, f.query)
	})
}

func (f *queryFilter) Status() Status {
	status := Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason}
	if f.enabled {
		status.Details = map[string]string{"query": f.query}
	}
	return status
}
