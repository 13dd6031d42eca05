package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <text>",
	Short: "Recognize entities in a free-text profile with Azure Text Analytics",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := setup(cmd.Context())
		defer d.logger.Sync()

		ta, err := newTextAnalytics(d.config.TextAnalytics, d.logger)
		if err != nil {
			return err
		}

		fmt.Println(string(ta.Analyze(cmd.Context(), strings.Join(args, " "))))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
