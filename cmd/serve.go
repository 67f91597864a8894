package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the extension message endpoint over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApplication(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		srv := server.New(server.Config{
			Addr:           a.config.Server.Addr,
			AllowedOrigins: a.config.Server.AllowedOrigins,
		}, a.dispatcher(), a.logger.Named("server"))

		a.logger.Info("starting the resume-screener server",
			zap.String("version", version),
			zap.Strings("allowed_origins", a.config.Server.AllowedOrigins),
		)

		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (default "+server.DefaultAddr+")")
	mustBindFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}
