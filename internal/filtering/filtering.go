package filtering

import (
	"slices"

	"github.com/spigell/schememitra/internal/metrics"
	"github.com/spigell/schememitra/internal/schemes"
	"go.uber.org/zap"
)

// Sentinel values meaning "do not constrain this field".
const (
	AllMinistries = "All Ministries"
	AllTypes      = "All Types"
	AllCategories = "All Categories"
)

// Filter represents a single filtering step applied to schemes.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	// Apply returns the schemes that pass the step. The input slice is never modified.
	Apply(items []schemes.Scheme) ([]schemes.Scheme, Step)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type statusProvider interface {
	Status() Status
}

// Criteria is the set of constraints chosen by the user. Empty values and
// the sentinels leave the corresponding field unconstrained.
type Criteria struct {
	Query       string `json:"query" form:"q"`
	Ministry    string `json:"ministry" form:"ministry"`
	Beneficiary string `json:"beneficiary" form:"beneficiary"`
	Category    string `json:"category" form:"category"`
}

// Steps builds the filter pipeline for the criteria. Unconstrained steps are
// present but disabled.
func Steps(c Criteria) []Filter {
	return []Filter{
		NewQuery(c.Query),
		NewField("ministry", c.Ministry, AllMinistries, func(s schemes.Scheme) string { return s.Ministry }),
		NewField("beneficiary", c.Beneficiary, AllTypes, func(s schemes.Scheme) string { return s.Beneficiary }),
		NewField("category", c.Category, AllCategories, func(s schemes.Scheme) string { return string(s.Category) }),
	}
}

// Schemes returns the schemes satisfying every constraint of c, in catalog order.
func Schemes(items []schemes.Scheme, c Criteria) []schemes.Scheme {
	return Run(Steps(c), items, nil)
}

// Run executes the enabled filters sequentially on a copy of items.
func Run(steps []Filter, items []schemes.Scheme, logger *zap.Logger) []schemes.Scheme {
	if logger == nil {
		logger = zap.NewNop()
	}

	current := slices.Clone(items)
	for _, step := range steps {
		if !step.IsEnabled() {
			logger.Info("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info := step.Apply(current)
		logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)
		current = next
	}

	if current == nil {
		current = []schemes.Scheme{}
	}
	metrics.FilterResults.Observe(float64(len(current)))

	return current
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// Unconstrained reports whether value leaves a field unconstrained.
func Unconstrained(value, sentinel string) bool {
	return value == "" || value == sentinel
}

func keep(items []schemes.Scheme, pred func(schemes.Scheme) bool) ([]schemes.Scheme, Step) {
	out := make([]schemes.Scheme, 0, len(items))
	for _, s := range items {
		if pred(s) {
			out = append(out, s)
		}
	}
	return out, Step{Initial: len(items), Dropped: len(items) - len(out), Left: len(out)}
}
