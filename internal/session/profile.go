package session

import (
	"fmt"
	"strings"
)

const (
	// DefaultProfile is used when the user has not described themselves.
	DefaultProfile = "General user"

	DefaultAge = 30
	MinAge     = 0
	MaxAge     = 100

	// OtherCategory is offered next to the catalog categories in the profile form.
	OtherCategory = "Other"
)

// BuildProfile renders the free-text profile used for scoring and explanations.
// Ages outside [MinAge, MaxAge] fall back to DefaultAge.
func BuildProfile(age int, category, skills string) string {
	if age < MinAge || age > MaxAge {
		age = DefaultAge
	}

	category = strings.TrimSpace(category)
	if category == "" {
		category = OtherCategory
	}

	profile := fmt.Sprintf("%d years old, %s category", age, category)
	if skills = strings.TrimSpace(skills); skills != "" {
		profile += ", skills: " + skills
	}

	return profile
}
