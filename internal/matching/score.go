package matching

import (
	"slices"
	"strings"

	"github.com/spigell/schememitra/internal/schemes"
	"github.com/spigell/schememitra/internal/utils"
)

const (
	BaseScore    = 50
	KeywordBonus = 5
	MaxScore     = 95
)

// keywords is the demographic and occupational vocabulary shared by schemes and profiles.
var keywords = []string{
	"farmer", "women", "youth", "student", "senior", "elder", "msme", "business",
	"entrepreneur", "girl", "female", "young", "old", "small", "enterprise",
}

// Keywords returns the scoring vocabulary.
func Keywords() []string {
	return slices.Clone(keywords)
}

// Scored pairs a scheme with its match score.
type Scored struct {
	Scheme schemes.Scheme `json:"scheme"`
	Score  int            `json:"score"`
}

// Score estimates how well the scheme fits the profile, in [BaseScore, MaxScore].
func Score(scheme schemes.Scheme, profile string) int {
	return ScoreMatches(len(SharedKeywords(scheme, profile)))
}

// ScoreMatches converts a keyword hit count into a score.
func ScoreMatches(matches int) int {
	if matches < 0 {
		matches = 0
	}
	return min(MaxScore, BaseScore+KeywordBonus*matches)
}

// SharedKeywords returns the vocabulary keywords contained in both the scheme
// (name, beneficiary and category) and the profile. Containment is a plain
// substring check, so "farmer" also hits "farmers".
func SharedKeywords(scheme schemes.Scheme, profile string) []string {
	profileText := utils.Fold(profile)
	if strings.TrimSpace(profileText) == "" {
		return nil
	}

	schemeText := utils.Fold(scheme.Name + " " + scheme.Beneficiary + " " + string(scheme.Category))

	var shared []string
	for _, keyword := range keywords {
		if strings.Contains(schemeText, keyword) && strings.Contains(profileText, keyword) {
			shared = append(shared, keyword)
		}
	}
	return shared
}

// ScoreAll scores every scheme against the profile, keeping the input order.
func ScoreAll(items []schemes.Scheme, profile string) []Scored {
	scored := make([]Scored, 0, len(items))
	for _, s := range items {
		scored = append(scored, Scored{Scheme: s, Score: Score(s, profile)})
	}
	return scored
}
