package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain <scheme-id>",
	Short: "Explain why a scheme may fit your profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return explain(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)

	explainCmd.Flags().StringP("format", "o", formatText, "output format: text or json")
	addProfileFlags(explainCmd)
}

func explain(cmd *cobra.Command, id string) error {
	ctx := cmd.Context()
	d := setup(ctx)
	defer d.logger.Sync()

	scheme, ok := d.catalog.FindByID(id)
	if !ok {
		return fmt.Errorf("there is no scheme with id %q", id)
	}

	result := d.explainer.Explain(ctx, scheme, profileFromFlags(cmd))

	if format, _ := cmd.Flags().GetString("format"); format == formatJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printScheme(scheme, result.Score)
	fmt.Println()
	fmt.Println(result.Explanation)

	return nil
}
