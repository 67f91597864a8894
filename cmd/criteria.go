package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spigell/resume-screener/internal/recruiting"
)

var criteriaCmd = &cobra.Command{
	Use:   "criteria",
	Short: "Show or replace the saved screening criteria",
}

var criteriaShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved criteria merged with the settings defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApplication(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		criteria, err := a.resolveCriteria(ctx, "")
		if err != nil {
			return err
		}
		return printYAML(cmd.OutOrStdout(), criteria)
	},
}

var criteriaSetCmd = &cobra.Command{
	Use:   "set FILE",
	Short: "Save criteria from a YAML or JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApplication(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		criteria, err := loadCriteriaFile(args[0])
		if err != nil {
			return err
		}
		if err := criteria.Validate(); err != nil {
			return fmt.Errorf("invalid criteria: %w", err)
		}
		if err := a.store.SaveCriteria(ctx, criteria); err != nil {
			return err
		}

		a.logger.Info("criteria saved", zap.String("job_title", criteria.JobTitle))
		return nil
	},
}

func init() {
	criteriaCmd.AddCommand(criteriaShowCmd, criteriaSetCmd)
	rootCmd.AddCommand(criteriaCmd)
}

// loadCriteriaFile decodes criteria from YAML; JSON files parse as YAML too.
func loadCriteriaFile(path string) (recruiting.Criteria, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return recruiting.Criteria{}, fmt.Errorf("reading criteria file: %w", err)
	}

	var criteria recruiting.Criteria
	if err := yaml.Unmarshal(data, &criteria); err != nil {
		return recruiting.Criteria{}, fmt.Errorf("decoding criteria file %s: %w", path, err)
	}
	return criteria, nil
}

// resolveCriteria picks the criteria file when given, otherwise the saved criteria, and fills
// empty fields from the settings defaults.
func (a *application) resolveCriteria(ctx context.Context, file string) (recruiting.Criteria, error) {
	settings, err := a.store.Settings(ctx)
	if err != nil {
		return recruiting.Criteria{}, err
	}

	var criteria recruiting.Criteria
	if file != "" {
		criteria, err = loadCriteriaFile(file)
		if err != nil {
			return recruiting.Criteria{}, err
		}
	} else {
		saved, err := a.store.Criteria(ctx)
		if err != nil {
			return recruiting.Criteria{}, err
		}
		if saved != nil {
			criteria = *saved
		}
	}

	criteria = criteria.WithDefaults(settings.DefaultCriteria)
	if err := criteria.Validate(); err != nil {
		return recruiting.Criteria{}, fmt.Errorf("invalid criteria: %w", err)
	}
	return criteria, nil
}
