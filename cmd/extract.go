package cmd

import (
	"github.com/spf13/cobra"
)

var extractFlags pageFlags

var extractCmd = &cobra.Command{
	Use:   "extract SOURCE...",
	Short: "Extract candidate records from resume or list pages",
	Long: "Each SOURCE is a page URL or a saved HTML file (\"-\" reads stdin). " +
		"Records are printed as JSON.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApplication(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		extractions, err := a.extractSources(ctx, args, extractFlags)
		if err != nil {
			return err
		}

		out, done, err := openOutput(cmd.Flag("output").Value.String(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if err := printJSON(out, extractions); err != nil {
			_ = done()
			return err
		}
		return done()
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	addPageFlags(extractCmd, &extractFlags)
	extractCmd.Flags().StringP("output", "o", "", "write JSON to this file instead of stdout")
}

func addPageFlags(cmd *cobra.Command, flags *pageFlags) {
	cmd.Flags().StringVarP(&flags.platform, "platform", "p", "", "platform of the pages (boss, liepin, zhaopin); detected from the URL when empty")
	cmd.Flags().StringVar(&flags.pageURL, "url", "", "original address of a saved page, used for platform detection and link resolution")
	cmd.Flags().BoolVar(&flags.current, "current", false, "only read the resume shown on each page")
}
