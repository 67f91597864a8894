package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/store"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the stored settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored settings with the API key masked",
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
		settings.AIConfig.APIKey = maskSecret(settings.AIConfig.APIKey)
		return printJSON(cmd.OutOrStdout(), settings)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change individual settings; omitted flags keep their stored values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApplication(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		patch := settingsPatchFromFlags(cmd)
		if file := cmd.Flag("default-criteria").Value.String(); file != "" {
			criteria, err := loadCriteriaFile(file)
			if err != nil {
				return err
			}
			patch.DefaultCriteria = &criteria
		}

		settings, err := a.store.SaveSettings(ctx, patch)
		if err != nil {
			return err
		}

		a.logger.Info("settings saved",
			zap.Bool("configured", settings.Configured()),
			zap.String("deployment", settings.AIConfig.DeploymentName),
			zap.Int("max_concurrent", settings.MaxConcurrent),
		)
		return nil
	},
}

func init() {
	f := settingsSetCmd.Flags()
	f.String("endpoint", "", "Azure OpenAI endpoint, e.g. https://my-resource.openai.azure.com")
	f.String("api-key", "", "Azure OpenAI API key")
	f.String("deployment", "", "deployment name")
	f.Int("max-concurrent", 0, "concurrent model calls per batch chunk (1-20)")
	f.Bool("auto-extract", false, "extract automatically when a supported page opens")
	f.String("default-criteria", "", "criteria file used to fill fields missing from screening requests")

	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func settingsPatchFromFlags(cmd *cobra.Command) store.SettingsPatch {
	var patch store.SettingsPatch
	flags := cmd.Flags()

	ai := &store.AIConfigPatch{}
	touched := false
	if flags.Changed("endpoint") {
		v, _ := flags.GetString("endpoint")
		ai.Endpoint, touched = &v, true
	}
	if flags.Changed("api-key") {
		v, _ := flags.GetString("api-key")
		ai.APIKey, touched = &v, true
	}
	if flags.Changed("deployment") {
		v, _ := flags.GetString("deployment")
		ai.DeploymentName, touched = &v, true
	}
	if touched {
		patch.AIConfig = ai
	}

	if flags.Changed("max-concurrent") {
		v, _ := flags.GetInt("max-concurrent")
		patch.MaxConcurrent = &v
	}
	if flags.Changed("auto-extract") {
		v, _ := flags.GetBool("auto-extract")
		patch.AutoExtract = &v
	}

	return patch
}

func maskSecret(secret string) string {
	runes := []rune(secret)
	if len(runes) <= 4 {
		if len(runes) == 0 {
			return ""
		}
		return "****"
	}
	return "****" + string(runes[len(runes)-4:])
}
