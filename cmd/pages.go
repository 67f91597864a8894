package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/extract"
	"github.com/spigell/resume-screener/internal/fetch"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/recruiting"
	"github.com/spigell/resume-screener/internal/utils"
)

// pageFlags are shared by every command that reads pages.
type pageFlags struct {
	platform string
	pageURL  string
	current  bool
}

// extractSources loads every source and runs the platform strategy over it.
// Remote sources are spaced by fetch.delay.
func (a *application) extractSources(ctx context.Context, sources []string, flags pageFlags) ([]extract.Extraction, error) {
	loader, err := a.newLoader()
	if err != nil {
		return nil, err
	}

	extractions := make([]extract.Extraction, 0, len(sources))
	previousRemote := false

	for _, source := range sources {
		remote := fetch.IsRemote(source)
		if remote && previousRemote {
			if err := utils.Sleep(ctx, a.config.Fetch.Delay); err != nil {
				return nil, err
			}
		}
		previousRemote = remote

		page, err := loader.Load(ctx, source, flags.pageURL)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", source, err)
		}

		strategy, err := a.registry.Resolve(flags.platform, page.Href())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}

		log := logger.WithFields(a.logger,
			logger.PlatformFields(string(strategy.Platform()), strategy.Platform().Label())...,
		)

		var extraction extract.Extraction
		if flags.current {
			extraction = extract.Extraction{
				Resumes:  []recruiting.Candidate{},
				Platform: strategy.Platform().Label(),
				PageURL:  page.Href(),
			}
			if c := strategy.ExtractCurrentResume(page); c != nil {
				extraction.Resumes = append(extraction.Resumes, *c)
			}
		} else {
			extraction = extract.ExtractAll(strategy, page)
		}

		log.Info("page extracted",
			zap.String("source", source),
			zap.Int("resumes", len(extraction.Resumes)),
		)
		extractions = append(extractions, extraction)
	}

	return extractions, nil
}

func candidatesOf(extractions []extract.Extraction) []recruiting.Candidate {
	var out []recruiting.Candidate
	for _, e := range extractions {
		out = append(out, e.Resumes...)
	}
	return out
}
