package schemes

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const validCatalog = `{
  "schemes": [
    {
      "id": "pm-kisan",
      "name": "PM-KISAN Samman Nidhi",
      "ministry": "Ministry of Agriculture",
      "beneficiary": "Small and marginal farmers",
      "benefit": "Rs 6000 per year",
      "category": "Farmers",
      "description": "Income support to farmer families",
      "source_url": "https://pmkisan.gov.in",
      "eligibility": "ignored extra field"
    },
    {
      "id": 2,
      "name": "Mahila Udyam Nidhi",
      "ministry": "SIDBI",
      "beneficiary": "Women entrepreneurs",
      "benefit": "Soft loans",
      "category": "Women",
      "description": "Loans for women led small enterprises",
      "source_url": "https://sidbi.in"
    }
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSON(t *testing.T) {
	catalog, err := Load(writeFile(t, "schemes.json", validCatalog))
	require.NoError(t, err)

	assert.Equal(t, 2, catalog.Len())
	assert.NoError(t, catalog.Err())

	items := catalog.Items()
	assert.Equal(t, "pm-kisan", items[0].ID)
	assert.Equal(t, "2", items[1].ID, "numeric ids are decoded as strings")
	assert.Equal(t, CategoryWomen, items[1].Category)
	assert.Equal(t, "https://pmkisan.gov.in", items[0].SourceURL)

	scheme, ok := catalog.FindByID("2")
	require.True(t, ok)
	assert.Equal(t, "Mahila Udyam Nidhi", scheme.Name)
}

func TestLoadYAML(t *testing.T) {
	content := `
schemes:
  - id: nsp
    name: National Scholarship Portal
    ministry: Ministry of Education
    beneficiary: Students
    benefit: Scholarships
    category: Education
    description: Single window for scholarships
    source_url: https://scholarships.gov.in
`
	catalog, err := Load(writeFile(t, "schemes.yaml", content))
	require.NoError(t, err)
	require.Equal(t, 1, catalog.Len())
	assert.Equal(t, CategoryEducation, catalog.Items()[0].Category)
}

func TestLoadRejectsMalformedDocuments(t *testing.T) {
	cases := []struct {
		name    string
		content string
		invalid bool
	}{
		{name: "not json", content: `{"schemes": [`},
		{name: "missing schemes", content: `{"items": []}`, invalid: true},
		{name: "unknown category", content: `{"schemes": [{"id": "a", "name": "A", "ministry": "M", "beneficiary": "B", "benefit": "x", "category": "Pets", "description": "d", "source_url": "u"}]}`, invalid: true},
		{name: "missing field", content: `{"schemes": [{"id": "a", "name": "A", "ministry": "M", "beneficiary": "B", "benefit": "x", "category": "Youth", "description": "d"}]}`, invalid: true},
		{name: "null field", content: `{"schemes": [{"id": "a", "name": "A", "ministry": null, "beneficiary": "B", "benefit": "x", "category": "Youth", "description": "d", "source_url": "u"}]}`, invalid: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "schemes.json", tc.content))
			require.Error(t, err)
			if tc.invalid {
				assert.True(t, errors.Is(err, ErrInvalidCatalog), "unexpected error: %v", err)
			}
		})
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	content := `{"schemes": [
		{"id": "a", "name": "A", "ministry": "M", "beneficiary": "B", "benefit": "x", "category": "Youth", "description": "d", "source_url": "u"},
		{"id": "a", "name": "B", "ministry": "M", "beneficiary": "B", "benefit": "x", "category": "Youth", "description": "d", "source_url": "u"}
	]}`

	_, err := Load(writeFile(t, "schemes.json", content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate scheme id")
}

func TestLoadOrEmptyDegradesOnMissingFile(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)

	catalog := LoadOrEmpty(filepath.Join(t.TempDir(), "missing.json"), zap.New(core))

	require.NotNil(t, catalog)
	assert.Equal(t, 0, catalog.Len())
	assert.Error(t, catalog.Err())
	assert.True(t, errors.Is(catalog.Err(), os.ErrNotExist))
	assert.Len(t, observed.All(), 1)
}

func TestCatalogOptions(t *testing.T) {
	catalog, err := NewCatalog([]Scheme{
		{ID: "1", Ministry: "Rural Development", Beneficiary: "Women", Category: CategoryWomen},
		{ID: "2", Ministry: "Agriculture", Beneficiary: "Farmers", Category: CategoryFarmers},
		{ID: "3", Ministry: "Agriculture", Beneficiary: "Women", Category: CategoryFarmers},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Agriculture", "Rural Development"}, catalog.Ministries())
	assert.Equal(t, []string{"Farmers", "Women"}, catalog.Beneficiaries())
}

func TestCatalogItemsAreCopies(t *testing.T) {
	catalog, err := NewCatalog([]Scheme{{ID: "1", Name: "Original", Category: CategoryYouth}})
	require.NoError(t, err)

	items := catalog.Items()
	items[0].Name = "Changed"

	assert.Equal(t, "Original", catalog.Items()[0].Name)
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"Farmers", "Women", "Youth", "MSME", "Education", "Senior Citizens"}, CategoryNames())
	assert.Equal(t, "🌾", CategoryFarmers.Icon())
	assert.False(t, Category("Other").Valid())
}
