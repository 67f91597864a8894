package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/export"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Work with cached screening results",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print cached results, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApplication(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		results, err := a.store.Results(ctx)
		if err != nil {
			return err
		}
		return printRanking(cmd.OutOrStdout(), results)
	},
}

var resultsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write cached results as JSON, YAML or XLSX",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApplication(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		format, err := export.ParseFormat(cmd.Flag("format").Value.String())
		if err != nil {
			return err
		}

		results, err := a.store.Results(ctx)
		if err != nil {
			return err
		}

		path := cmd.Flag("out").Value.String()
		if err := writeExport(path, format, results, cmd.OutOrStdout()); err != nil {
			return err
		}

		a.logger.Info("results exported",
			zap.String("filename", path),
			zap.String("format", string(format)),
			zap.Int("count", len(results)),
		)
		return nil
	},
}

var resultsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop all cached results",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApplication(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.store.ClearResults(ctx); err != nil {
			return err
		}
		a.logger.Info("results cleared")
		return nil
	},
}

func init() {
	resultsExportCmd.Flags().StringP("format", "f", string(export.FormatJSON), "json, yaml or xlsx")
	resultsExportCmd.Flags().StringP("out", "o", "", "output file (stdout when empty)")

	resultsCmd.AddCommand(resultsListCmd, resultsExportCmd, resultsClearCmd)
	rootCmd.AddCommand(resultsCmd)
}
