package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the configured model answers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApplication(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		settings, err := a.store.Settings(ctx)
		if err != nil {
			return err
		}
		screener, err := a.newScreener(ctx, settings)
		if err != nil {
			return err
		}

		ok, err := screener.Ping(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("model returned an empty reply")
		}

		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
