package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var compareFlags pageFlags

var compareCmd = &cobra.Command{
	Use:   "compare SOURCE...",
	Short: "Ask the model for a ranked Markdown comparison of the candidates on the pages",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApplication(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		criteria, err := a.resolveCriteria(ctx, cmd.Flag("criteria").Value.String())
		if err != nil {
			return err
		}

		settings, err := a.store.Settings(ctx)
		if err != nil {
			return err
		}
		screener, err := a.newScreener(ctx, settings)
		if err != nil {
			return err
		}

		extractions, err := a.extractSources(ctx, args, compareFlags)
		if err != nil {
			return err
		}
		candidates := candidatesOf(extractions)
		if len(candidates) < 2 {
			return errors.New("at least two candidates are needed for a comparison")
		}

		a.logger.Info("comparing candidates", zap.Int("count", len(candidates)))

		report, err := screener.Compare(ctx, candidates, criteria)
		if err != nil {
			return err
		}

		out, done, err := openOutput(cmd.Flag("output").Value.String(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, report); err != nil {
			_ = done()
			return err
		}
		return done()
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	addPageFlags(compareCmd, &compareFlags)
	compareCmd.Flags().StringP("criteria", "c", "", "criteria file (YAML or JSON); the saved criteria are used when empty")
	compareCmd.Flags().StringP("output", "o", "", "write the report to this file instead of stdout")
}
