package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/spigell/resume-screener/internal/recruiting"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// openOutput returns stdout for "" or "-", otherwise a created file.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, f.Close, nil
}

// printRanking writes one line per evaluation in the given order.
func printRanking(w io.Writer, evaluations []recruiting.Evaluation) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\t候选人\t评分\t推荐等级\t总结")
	for i, ev := range evaluations {
		fmt.Fprintf(tw, "%d\t%s\t%g\t%s\t%s\n",
			i+1, ev.CandidateName, ev.OverallScore, ev.Recommendation.Label(), oneLine(ev.Summary, 60))
	}
	return tw.Flush()
}

func printDetails(w io.Writer, ev recruiting.Evaluation) {
	fmt.Fprintf(w, "%s  %g分  %s\n", ev.CandidateName, ev.OverallScore, ev.Recommendation.Label())
	if ev.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", ev.Summary)
	}
	if len(ev.DimensionScores) > 0 {
		fmt.Fprintln(w, "\n维度评分:")
		for _, d := range ev.DimensionScores {
			fmt.Fprintf(w, "  - %s: %g %s\n", d.Dimension, d.Score, d.Comment)
		}
	}
	printList(w, "优势", ev.Strengths)
	printList(w, "风险", ev.Concerns)
	printList(w, "建议面试问题", ev.SuggestedQuestions)
	fmt.Fprintln(w)
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

func oneLine(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
