// Package export writes screening results to files.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/spigell/resume-screener/internal/recruiting"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// SheetName is the worksheet written by the XLSX format.
const SheetName = "筛选结果"

var header = []string{"排名", "候选人", "综合评分", "推荐等级", "维度评分", "优势", "风险", "总结", "建议面试问题"}

// Formats lists supported formats.
func Formats() []string {
	return []string{string(FormatJSON), string(FormatYAML), string(FormatXLSX)}
}

// ParseFormat accepts a format name or a file extension.
func ParseFormat(value string) (Format, error) {
	v := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(value), "."))
	switch v {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (one of %s)", value, strings.Join(Formats(), ", "))
	}
}

// Write encodes evaluations to w in the given format.
func Write(w io.Writer, format Format, evaluations []recruiting.Evaluation) error {
	if evaluations == nil {
		evaluations = []recruiting.Evaluation{}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(evaluations); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(evaluations); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return nil
	case FormatXLSX:
		return writeXLSX(w, evaluations)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func writeXLSX(w io.Writer, evaluations []recruiting.Evaluation) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return fmt.Errorf("xlsx: add sheet: %w", err)
	}

	addRow(sheet, header...)
	for i, ev := range evaluations {
		addRow(sheet,
			strconv.Itoa(i+1),
			ev.CandidateName,
			strconv.FormatFloat(ev.OverallScore, 'f', -1, 64),
			ev.Recommendation.Label(),
			dimensions(ev.DimensionScores),
			strings.Join(ev.Strengths, "\n"),
			strings.Join(ev.Concerns, "\n"),
			ev.Summary,
			strings.Join(ev.SuggestedQuestions, "\n"),
		)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func dimensions(scores []recruiting.DimensionScore) string {
	lines := make([]string, 0, len(scores))
	for _, d := range scores {
		line := fmt.Sprintf("%s: %s", d.Dimension, strconv.FormatFloat(d.Score, 'f', -1, 64))
		if d.Comment != "" {
			line += " (" + d.Comment + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
