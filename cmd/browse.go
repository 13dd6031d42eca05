package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/schememitra/internal/filtering"
	"github.com/spigell/schememitra/internal/matching"
	"github.com/spigell/schememitra/internal/schemes"
	"github.com/spigell/schememitra/internal/session"
)

const (
	PromptSetProfile    = "Set my profile"
	PromptSetFilters    = "Change filters"
	PromptShowBookmarks = "Show bookmarks"
	PromptExit          = "Exit"
	PromptBack          = "back"

	PromptExplain    = "Explain eligibility"
	PromptHide       = "Hide explanation"
	PromptBookmark   = "Bookmark"
	PromptUnbookmark = "Remove bookmark"
	PromptOpenSource = "Show official link"
)

var errExit = errors.New("exit requested")

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse schemes interactively",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return browse(cmd)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
	addProfileFlags(browseCmd)
}

type browser struct {
	deps     *deps
	session  *session.Session
	criteria filtering.Criteria
}

func browse(cmd *cobra.Command) error {
	d := setup(cmd.Context())
	defer d.logger.Sync()

	if err := d.catalog.Err(); err != nil {
		fmt.Printf("⚠️ Scheme catalog is not available: %v\n", err)
	}

	b := &browser{deps: d, session: session.New()}
	if profile := profileFromFlags(cmd); profile != session.DefaultProfile {
		b.session.SetProfile(profile)
	}

	for {
		err := b.step(cmd)
		if errors.Is(err, errExit) || errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (b *browser) step(cmd *cobra.Command) error {
	found := filtering.Run(filtering.Steps(b.criteria), b.deps.catalog.Items(), b.deps.logger)
	profile := b.session.Profile()

	items := make([]string, 0, len(found)+4)
	for _, scored := range matching.ScoreAll(found, profile) {
		items = append(items, schemeLabel(scored.Scheme, scored.Score, b.session.IsBookmarked(scored.Scheme.ID)))
	}
	items = append(items, PromptSetProfile, PromptSetFilters, PromptShowBookmarks, PromptExit)

	menu := promptui.Select{
		Label: fmt.Sprintf("%s (profile: %s)", filtering.Summary(len(found)), profile),
		Items: items,
		Size:  12,
	}

	idx, selected, err := menu.Run()
	if err != nil {
		return err
	}

	if idx < len(found) {
		return b.schemeMenu(cmd, found[idx])
	}

	switch selected {
	case PromptExit:
		return errExit
	case PromptSetProfile:
		return b.askProfile()
	case PromptSetFilters:
		return b.askFilters()
	case PromptShowBookmarks:
		return b.showBookmarks(cmd)
	default:
		return fmt.Errorf("invalid action: %s", selected)
	}
}

func (b *browser) schemeMenu(cmd *cobra.Command, scheme schemes.Scheme) error {
	id := scheme.ID

	for {
		explainLabel := PromptExplain
		if b.session.IsExpanded(id) {
			explainLabel = PromptHide
		}
		bookmarkLabel := PromptBookmark
		if b.session.IsBookmarked(id) {
			bookmarkLabel = PromptUnbookmark
		}

		actions := promptui.Select{
			Label: fmt.Sprintf("%s %s / %s", scheme.Category.Icon(), scheme.Name, scheme.Ministry),
			Items: []string{explainLabel, bookmarkLabel, PromptOpenSource, PromptBack},
		}

		_, action, err := actions.Run()
		if err != nil {
			return err
		}

		switch action {
		case PromptBack:
			return nil
		case PromptExplain, PromptHide:
			if !b.session.ToggleExpanded(id) {
				continue
			}
			result := b.deps.explainer.Explain(cmd.Context(), scheme, b.session.Profile())
			fmt.Printf("\nMatch score: %d%%\n%s\n\n", result.Score, result.Explanation)
		case PromptBookmark, PromptUnbookmark:
			saved := b.session.ToggleBookmark(id)
			b.deps.logger.Debug("bookmark toggled", zap.String("scheme_id", id), zap.Bool("bookmarked", saved))
		case PromptOpenSource:
			fmt.Printf("\n%s\n%s\n\n", scheme.Description, scheme.SourceURL)
		}
	}
}

func (b *browser) showBookmarks(cmd *cobra.Command) error {
	saved := b.session.Bookmarked(b.deps.catalog)
	if len(saved) == 0 {
		fmt.Println("No bookmarks yet.")
		return nil
	}

	items := make([]string, 0, len(saved)+1)
	for _, s := range saved {
		items = append(items, schemeLabel(s, matching.Score(s, b.session.Profile()), true))
	}

	menu := promptui.Select{Label: "Bookmarked schemes", Items: append(items, PromptBack)}
	idx, _, err := menu.Run()
	if err != nil || idx >= len(saved) {
		return err
	}

	return b.schemeMenu(cmd, saved[idx])
}

func (b *browser) askProfile() error {
	agePrompt := promptui.Prompt{
		Label:   "Age",
		Default: strconv.Itoa(session.DefaultAge),
		Validate: func(input string) error {
			age, err := strconv.Atoi(strings.TrimSpace(input))
			if err != nil || age < session.MinAge || age > session.MaxAge {
				return fmt.Errorf("age must be a number between %d and %d", session.MinAge, session.MaxAge)
			}
			return nil
		},
	}
	ageInput, err := agePrompt.Run()
	if err != nil {
		return err
	}
	age, _ := strconv.Atoi(strings.TrimSpace(ageInput))

	categoryPrompt := promptui.Select{
		Label: "Category",
		Items: append(schemes.CategoryNames(), session.OtherCategory),
	}
	_, category, err := categoryPrompt.Run()
	if err != nil {
		return err
	}

	skillsPrompt := promptui.Prompt{Label: "Skills or occupation (optional)"}
	skills, err := skillsPrompt.Run()
	if err != nil {
		return err
	}

	b.session.SetProfile(session.BuildProfile(age, category, skills))
	return nil
}

func (b *browser) askFilters() error {
	queryPrompt := promptui.Prompt{Label: "Search", Default: b.criteria.Query}
	query, err := queryPrompt.Run()
	if err != nil {
		return err
	}

	opts := filtering.OptionsFor(b.deps.catalog)

	ministry, err := selectOption("Ministry", opts.Ministries)
	if err != nil {
		return err
	}
	beneficiary, err := selectOption("Beneficiary type", opts.Beneficiaries)
	if err != nil {
		return err
	}
	category, err := selectOption("Category", opts.Categories)
	if err != nil {
		return err
	}

	b.criteria = filtering.Criteria{Query: query, Ministry: ministry, Beneficiary: beneficiary, Category: category}
	return nil
}

func selectOption(label string, options []string) (string, error) {
	menu := promptui.Select{Label: label, Items: options, Size: 10}
	_, selected, err := menu.Run()
	return selected, err
}

func schemeLabel(s schemes.Scheme, score int, bookmarked bool) string {
	mark := ""
	if bookmarked {
		mark = " ★"
	}
	return fmt.Sprintf("%s %s (%d%%) / %s%s", s.Category.Icon(), s.Name, score, s.Ministry, mark)
}
