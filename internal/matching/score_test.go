package matching

import (
	"strings"
	"testing"

	"github.com/spigell/schememitra/internal/schemes"
)

func TestScoreSingleKeyword(t *testing.T) {
	scheme := schemes.Scheme{Name: "Kisan Samman", Beneficiary: "farmer", Category: schemes.CategoryFarmers}

	if got := Score(scheme, "35 years old farmer"); got != 55 {
		t.Fatalf("expected score 55, got %d", got)
	}
}

func TestScoreEmptyProfile(t *testing.T) {
	scheme := schemes.Scheme{Name: "Stand-Up India", Beneficiary: "Women and SC/ST entrepreneurs", Category: schemes.CategoryMSME}

	for _, profile := range []string{"", "   "} {
		if got := Score(scheme, profile); got != BaseScore {
			t.Fatalf("expected base score for %q, got %d", profile, got)
		}
	}
}

func TestScoreIsCaseInsensitive(t *testing.T) {
	scheme := schemes.Scheme{Name: "Mahila Udyam Nidhi", Beneficiary: "Women entrepreneurs of small enterprises", Category: schemes.CategoryWomen}
	upper := schemes.Scheme{Name: strings.ToUpper(scheme.Name), Beneficiary: strings.ToUpper(scheme.Beneficiary), Category: scheme.Category}

	profile := "Young Women entrepreneur with a small enterprise"

	want := Score(scheme, profile)
	if want != 70 {
		t.Fatalf("expected 70, got %d", want)
	}

	if got := Score(upper, profile); got != want {
		t.Fatalf("upper-cased scheme changed score: %d != %d", got, want)
	}
	if got := Score(scheme, strings.ToUpper(profile)); got != want {
		t.Fatalf("upper-cased profile changed score: %d != %d", got, want)
	}
}

func TestScoreSaturates(t *testing.T) {
	scheme := schemes.Scheme{
		Name:        "Young women farmer student senior elder msme business entrepreneur",
		Beneficiary: "girl female old small enterprise youth",
		Category:    schemes.CategoryYouth,
	}
	profile := strings.Join(Keywords(), " ")

	if got := Score(scheme, profile); got != MaxScore {
		t.Fatalf("expected saturation at %d, got %d", MaxScore, got)
	}
}

func TestScoreMatchesIsMonotonic(t *testing.T) {
	prev := ScoreMatches(-1)
	if prev != BaseScore {
		t.Fatalf("negative matches should clamp to base, got %d", prev)
	}

	for n := 0; n <= len(keywords); n++ {
		got := ScoreMatches(n)
		if got < prev {
			t.Fatalf("score decreased at %d matches: %d < %d", n, got, prev)
		}
		if got < BaseScore || got > MaxScore {
			t.Fatalf("score %d out of range at %d matches", got, n)
		}
		prev = got
	}
}

func TestSharedKeywordsRequiresBothSides(t *testing.T) {
	scheme := schemes.Scheme{Name: "PM Kisan", Beneficiary: "Farmers", Category: schemes.CategoryFarmers}

	shared := SharedKeywords(scheme, "student looking for scholarships")
	if len(shared) != 0 {
		t.Fatalf("expected no shared keywords, got %v", shared)
	}

	shared = SharedKeywords(scheme, "a farmer")
	if len(shared) != 1 || shared[0] != "farmer" {
		t.Fatalf("unexpected shared keywords: %v", shared)
	}
}

func TestScoreIgnoresDescription(t *testing.T) {
	scheme := schemes.Scheme{
		Name:        "Atal Pension Yojana",
		Beneficiary: "Unorganised sector workers",
		Category:    schemes.CategorySeniorCitizens,
		Description: "Pension for farmer and women workers",
	}

	// "senior" comes from the category, description words do not count.
	if got := Score(scheme, "senior farmer"); got != 55 {
		t.Fatalf("expected 55, got %d", got)
	}
}

func TestScoreAllKeepsOrder(t *testing.T) {
	items := []schemes.Scheme{
		{ID: "a", Name: "Scholarship", Beneficiary: "Students", Category: schemes.CategoryEducation},
		{ID: "b", Name: "Kisan", Beneficiary: "Farmers", Category: schemes.CategoryFarmers},
	}

	scored := ScoreAll(items, "farmer")
	if len(scored) != 2 || scored[0].Scheme.ID != "a" || scored[1].Scheme.ID != "b" {
		t.Fatalf("unexpected order: %+v", scored)
	}
	if scored[0].Score != 50 || scored[1].Score != 55 {
		t.Fatalf("unexpected scores: %d, %d", scored[0].Score, scored[1].Score)
	}
}
