package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/schememitra/internal/filtering"
	"github.com/spigell/schememitra/internal/matching"
	"github.com/spigell/schememitra/internal/schemes"
)

const (
	formatText = "text"
	formatJSON = "json"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Filter the catalog and score schemes against your profile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return search(cmd)
	},
}

type searchResult struct {
	matching.Scored
	Explanation string `json:"explanation,omitempty"`
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("query", "q", "", "search in names, descriptions, ministries and beneficiaries")
	searchCmd.Flags().String("ministry", filtering.AllMinistries, "exact ministry")
	searchCmd.Flags().String("beneficiary", filtering.AllTypes, "exact beneficiary type")
	searchCmd.Flags().String("category", filtering.AllCategories, "exact category")
	searchCmd.Flags().Bool("explain", false, "ask the language model to explain every result")
	searchCmd.Flags().StringP("format", "o", formatText, "output format: text or json")
	addProfileFlags(searchCmd)
}

func search(cmd *cobra.Command) error {
	ctx := cmd.Context()
	d := setup(ctx)
	defer d.logger.Sync()

	format, _ := cmd.Flags().GetString("format")
	if format != formatText && format != formatJSON {
		return fmt.Errorf("unknown output format %q", format)
	}

	criteria := filtering.Criteria{}
	criteria.Query, _ = cmd.Flags().GetString("query")
	criteria.Ministry, _ = cmd.Flags().GetString("ministry")
	criteria.Beneficiary, _ = cmd.Flags().GetString("beneficiary")
	criteria.Category, _ = cmd.Flags().GetString("category")
	explain, _ := cmd.Flags().GetBool("explain")
	profile := profileFromFlags(cmd)

	steps := filtering.Steps(criteria)
	found := filtering.Run(steps, d.catalog.Items(), d.logger)

	d.logger.Info("search finished",
		zap.Int("found", len(found)),
		zap.String("profile", profile),
		zap.Any("filters", filtering.Describe(steps)),
	)

	results := make([]searchResult, 0, len(found))
	for _, scored := range matching.ScoreAll(found, profile) {
		result := searchResult{Scored: scored}
		if explain {
			result.Explanation = d.explainer.Explain(ctx, scored.Scheme, profile).Explanation
		}
		results = append(results, result)
	}

	if format == formatJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	fmt.Println(filtering.Summary(len(results)))
	for _, r := range results {
		printScheme(r.Scheme, r.Score)
		if r.Explanation != "" {
			fmt.Printf("    %s\n", r.Explanation)
		}
	}

	return nil
}

func printScheme(s schemes.Scheme, score int) {
	fmt.Printf("%s %s [%s] match %d%%\n", s.Category.Icon(), s.Name, s.ID, score)
	fmt.Printf("    %s | %s | %s\n", s.Ministry, s.Beneficiary, s.Benefit)
}
