package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/schememitra/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog, filters and explanations over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		d := setup(ctx)
		defer d.logger.Sync()

		ta, err := newTextAnalytics(d.config.TextAnalytics, d.logger)
		if err != nil {
			return err
		}

		mode := server.SetMode(viper.GetBool("debug"))
		d.logger.Info("starting http server", zap.String("addr", d.config.Server.Addr), zap.String("gin_mode", mode))

		return server.New(d.catalog, d.explainer, ta, d.logger).Run(ctx, d.config.Server.Addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "address to listen on")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}
