package schemes

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

type Category string

const (
	CategoryFarmers        Category = "Farmers"
	CategoryWomen          Category = "Women"
	CategoryYouth          Category = "Youth"
	CategoryMSME           Category = "MSME"
	CategoryEducation      Category = "Education"
	CategorySeniorCitizens Category = "Senior Citizens"
)

var categories = []Category{
	CategoryFarmers,
	CategoryWomen,
	CategoryYouth,
	CategoryMSME,
	CategoryEducation,
	CategorySeniorCitizens,
}

var categoryIcons = map[Category]string{
	CategoryFarmers:        "🌾",
	CategoryWomen:          "👩‍💼",
	CategoryYouth:          "👨‍🎓",
	CategoryMSME:           "🏭",
	CategoryEducation:      "📚",
	CategorySeniorCitizens: "👴",
}

// Categories returns the fixed category enumeration in display order.
func Categories() []Category {
	return slices.Clone(categories)
}

// CategoryNames returns the enumeration as plain strings.
func CategoryNames() []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, string(c))
	}
	return names
}

func (c Category) Valid() bool {
	return slices.Contains(categories, c)
}

func (c Category) Icon() string {
	return categoryIcons[c]
}

// Scheme is a government assistance program record.
type Scheme struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Ministry    string   `json:"ministry"`
	Beneficiary string   `json:"beneficiary"`
	Benefit     string   `json:"benefit"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	SourceURL   string   `json:"source_url"`
}

// Catalog is the read-only set of schemes loaded at startup.
// It is safe for concurrent reads.
type Catalog struct {
	items []Scheme
	byID  map[string]int
	err   error
}

// NewCatalog builds a catalog, rejecting duplicate ids and unknown categories.
func NewCatalog(items []Scheme) (*Catalog, error) {
	items = slices.Clone(items)
	byID := make(map[string]int, len(items))
	for idx, s := range items {
		id := strings.TrimSpace(s.ID)
		items[idx].ID = id
		if id == "" {
			return nil, fmt.Errorf("scheme at index %d has an empty id", idx)
		}
		if _, ok := byID[id]; ok {
			return nil, fmt.Errorf("duplicate scheme id %q", id)
		}
		if !s.Category.Valid() {
			return nil, fmt.Errorf("scheme %q has unknown category %q", id, s.Category)
		}
		byID[id] = idx
	}

	return &Catalog{
		items: items,
		byID:  byID,
	}, nil
}

// Empty returns a catalog without schemes that remembers why loading failed.
func Empty(reason error) *Catalog {
	return &Catalog{byID: map[string]int{}, err: reason}
}

// Err reports the load failure behind an empty catalog, if any.
func (c *Catalog) Err() error {
	return c.err
}

func (c *Catalog) Len() int {
	return len(c.items)
}

// Items returns a copy of the schemes in catalog order.
func (c *Catalog) Items() []Scheme {
	return slices.Clone(c.items)
}

func (c *Catalog) FindByID(id string) (Scheme, bool) {
	idx, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return Scheme{}, false
	}
	return c.items[idx], true
}

// Ministries returns the distinct ministries, sorted.
func (c *Catalog) Ministries() []string {
	return c.distinct(func(s Scheme) string { return s.Ministry })
}

// Beneficiaries returns the distinct beneficiary descriptions, sorted.
func (c *Catalog) Beneficiaries() []string {
	return c.distinct(func(s Scheme) string { return s.Beneficiary })
}

func (c *Catalog) distinct(field func(Scheme) string) []string {
	seen := make(map[string]struct{}, len(c.items))
	values := make([]string, 0, len(c.items))
	for _, s := range c.items {
		v := field(s)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
