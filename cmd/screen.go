package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/export"
	"github.com/spigell/resume-screener/internal/filtering"
	"github.com/spigell/resume-screener/internal/recruiting"
	"github.com/spigell/resume-screener/internal/screening"
)

const (
	PromptDone                = "Done"
	PromptBack                = "back"
	PromptRanking             = "Show ranking"
	PromptDetails             = "Show candidate details"
	PromptCompare             = "Compare candidates"
	PromptExport              = "Export results"
	PromptAppendToExcludeFile = "Append all candidates to exclude file"
)

var errExit = errors.New("exit requested")

var screenFlags pageFlags

var screenCmd = &cobra.Command{
	Use:   "screen SOURCE...",
	Short: "Extract candidates from pages, screen them and rank the results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScreen(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)
	addPageFlags(screenCmd, &screenFlags)

	screenCmd.Flags().StringP("criteria", "c", "", "criteria file (YAML or JSON); the saved criteria are used when empty")
	screenCmd.Flags().Bool("rescreen", false, "screen candidates that already have cached results")
	screenCmd.Flags().BoolP("auto-approve", "y", false, "print the ranking and exit without prompting")
	screenCmd.Flags().StringP("exclude-file", "e", "", "file with candidates to skip. Default is unset.")
	screenCmd.Flags().Int("max-concurrent", 0, "concurrent model calls per chunk (default from settings)")

	mustBindFlag("exclude-file", screenCmd.Flags().Lookup("exclude-file"))
}

type screenSession struct {
	app        *application
	screener   *screening.Screener
	criteria   recruiting.Criteria
	candidates []recruiting.Candidate
	results    []recruiting.Evaluation
	out        io.Writer
}

func runScreen(cmd *cobra.Command, sources []string) error {
	ctx := cmd.Context()

	a, err := newApplication(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	a.logger.Info("starting the resume-screener", zap.String("version", version))

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

	extractions, err := a.extractSources(ctx, sources, screenFlags)
	if err != nil {
		return err
	}

	candidates := candidatesOf(extractions)
	if len(candidates) == 0 {
		a.logger.Info("exiting", zap.String("reason", "no candidates found"))
		return nil
	}

	rescreen, _ := cmd.Flags().GetBool("rescreen")
	filters := filtering.New([]filtering.Filter{
		filtering.NewEmpty(a.logger),
		filtering.NewExcludedNames(a.config.ExcludeNames, a.logger),
		filtering.NewExcludeFile(a.config.ExcludeFile, a.logger),
		filtering.NewScreenedHistory(a.store, rescreen, a.logger),
	}, a.logger.Named("filtering"))

	candidates, err = filters.RunFilters(ctx, candidates)
	if err != nil {
		return fmt.Errorf("filtering failed: %w", err)
	}
	if len(candidates) == 0 {
		a.logger.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return nil
	}

	limit, _ := cmd.Flags().GetInt("max-concurrent")
	if limit <= 0 {
		limit = settings.MaxConcurrent
	}

	results := screener.ScreenBatch(ctx, candidates, criteria, limit)
	if err := a.store.PrependResults(ctx, results...); err != nil {
		a.logger.Warn("failed to cache results", zap.Error(err))
	}

	session := &screenSession{
		app:        a,
		screener:   screener,
		criteria:   criteria,
		candidates: candidates,
		results:    results,
		out:        cmd.OutOrStdout(),
	}

	if err := printRanking(session.out, results); err != nil {
		return err
	}

	if autoApprove, _ := cmd.Flags().GetBool("auto-approve"); autoApprove {
		return nil
	}

	return session.loop(ctx)
}

func (s *screenSession) loop(ctx context.Context) error {
	items := []string{PromptRanking, PromptDetails, PromptCompare, PromptExport}
	if s.app.config.ExcludeFile != "" {
		items = append(items, PromptAppendToExcludeFile)
	}
	items = append(items, PromptDone)

	prompt := promptui.Select{
		Label: "What next?",
		Items: items,
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			return fmt.Errorf("prompt: %w", err)
		}

		if err := s.handleAction(ctx, action); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			return err
		}
	}
}

func (s *screenSession) handleAction(ctx context.Context, action string) error {
	switch action {
	case PromptDone:
		s.app.logger.Info("exiting", zap.String("reason", "done"))
		return errExit
	case PromptRanking:
		return printRanking(s.out, s.results)
	case PromptDetails:
		return s.details()
	case PromptCompare:
		report, err := s.screener.Compare(ctx, s.candidates, s.criteria)
		if err != nil {
			s.app.logger.Error("comparison failed", zap.Error(err))
			return nil
		}
		fmt.Fprintln(s.out, report)
		return nil
	case PromptExport:
		return s.export()
	case PromptAppendToExcludeFile:
		return s.appendToExcludeFile()
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (s *screenSession) details() error {
	for {
		items := make([]string, 0, len(s.results)+1)
		for i, ev := range s.results {
			items = append(items, fmt.Sprintf("%d %s / %g / %s", i+1, ev.CandidateName, ev.OverallScore, ev.Recommendation.Label()))
		}

		detailPrompt := promptui.Select{
			Label: "Choose a candidate and press ENTER",
			Items: append(items, PromptBack),
			Size:  10,
		}

		index, selected, err := detailPrompt.Run()
		if err != nil {
			return err
		}
		if selected == PromptBack {
			return nil
		}

		printDetails(s.out, s.results[index])
	}
}

func (s *screenSession) export() error {
	formatPrompt := promptui.Select{
		Label: "Format",
		Items: export.Formats(),
	}
	_, name, err := formatPrompt.Run()
	if err != nil {
		return err
	}

	format, err := export.ParseFormat(name)
	if err != nil {
		return err
	}

	pathPrompt := promptui.Prompt{
		Label:   "File",
		Default: fmt.Sprintf("screening-%s.%s", time.Now().Format("20060102-150405"), format),
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("file name is required")
			}
			return nil
		},
	}
	path, err := pathPrompt.Run()
	if err != nil {
		return err
	}

	if err := writeExport(strings.TrimSpace(path), format, s.results, s.out); err != nil {
		return err
	}
	s.app.logger.Info("results exported", zap.String("filename", path), zap.String("format", string(format)))
	return nil
}

func (s *screenSession) appendToExcludeFile() error {
	path := s.app.config.ExcludeFile

	excluded, err := filtering.LoadExcluded(path)
	if err != nil {
		return err
	}
	excluded.Append(filtering.ToExcluded(s.candidates, time.Now()))

	if err := excluded.ToFile(path); err != nil {
		return err
	}

	s.app.logger.Info("appended to exclude file",
		zap.String("filename", path),
		zap.Int("candidates", len(s.candidates)),
	)
	return nil
}

func writeExport(path string, format export.Format, results []recruiting.Evaluation, stdout io.Writer) error {
	out, done, err := openOutput(path, stdout)
	if err != nil {
		return err
	}
	if err := export.Write(out, format, results); err != nil {
		_ = done()
		return err
	}
	return done()
}
