package filtering

import (
	"github.com/spigell/schememitra/internal/schemes"
)

type fieldFilter struct {
	name    string
	value   string
	field   func(schemes.Scheme) string
	enabled bool
	reason  string
}

// NewField creates a filter keeping schemes whose field equals value exactly.
// The filter is disabled when value is empty or equals sentinel.
func NewField(name, value, sentinel string, field func(schemes.Scheme) string) Filter {
	f := &fieldFilter{name: name, value: value, field: field, enabled: true}
	if Unconstrained(value, sentinel) {
		f.Disable("no " + name + " selected")
	}
	return f
}

func (f *fieldFilter) Name() string { return f.name }

func (f *fieldFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *fieldFilter) IsEnabled() bool { return f.enabled }

func (f *fieldFilter) Apply(items []schemes.Scheme) ([]schemes.Scheme, Step) {
	return keep(items, func(s schemes.Scheme) bool {
		return f.field(s) == f.value
	})
}

func (f *fieldFilter) Status() Status {
	status := Status{Name: f.name, Enabled: f.enabled, Reason: f.reason}
	if f.enabled {
		status.Details = map[string]string{"equals": f.value}
	}
	return status
}
