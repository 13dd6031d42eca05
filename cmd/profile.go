package cmd

import (
	"github.com/spf13/cobra"

	"github.com/spigell/schememitra/internal/session"
)

func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("profile", "p", "", "free-text description of yourself, overrides --age, --as and --skills")
	cmd.Flags().Int("age", session.DefaultAge, "your age")
	cmd.Flags().String("as", "", "the category you belong to, e.g. Farmers or Women")
	cmd.Flags().String("skills", "", "your skills or occupation")
}

// profileFromFlags prefers --profile, then the structured flags, then the default profile.
func profileFromFlags(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("profile"); p != "" {
		return p
	}

	flags := cmd.Flags()
	if !flags.Changed("age") && !flags.Changed("as") && !flags.Changed("skills") {
		return session.DefaultProfile
	}

	age, _ := flags.GetInt("age")
	category, _ := flags.GetString("as")
	skills, _ := flags.GetString("skills")

	return session.BuildProfile(age, category, skills)
}
