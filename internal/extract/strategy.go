package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/recruiting"
)

const (
	// DetailRawTextLimit bounds the body-text fallback of a resume page.
	DetailRawTextLimit = 5000
	// PageRawTextLimit bounds the body text captured for unrecognized pages.
	PageRawTextLimit = 8000
)

// Strategy is the extraction contract every recruiting platform implements.
type Strategy interface {
	Platform() Platform
	IsResumePage(p *Page) bool
	IsListPage(p *Page) bool
	// ExtractCurrentResume returns nil when the page cannot be read.
	ExtractCurrentResume(p *Page) *recruiting.Candidate
	// ExtractResumeList returns one record per card with a resolvable name.
	ExtractResumeList(p *Page) []recruiting.Candidate
}

// site describes where a platform keeps each candidate field.
// Field cascades are probed most-specific first.
type site struct {
	platform Platform

	resumeURLParts []string
	resumeMarkers  string
	listURLParts   []string
	listMarkers    string

	name        []string
	title       []string
	infoTags    string
	detailRules Rules
	skills      string
	work        string
	education   string
	projects    string
	selfDesc    []string
	main        string

	// cards are tried in order; the first selector with matches is used.
	cards      []string
	cardName   string
	cardTitle  string
	cardTags   string
	cardRules  Rules
	cardSkills string
}

// siteStrategy implements Strategy on top of a site description.
type siteStrategy struct {
	site   site
	logger *zap.Logger
}

func newSiteStrategy(s site, log *zap.Logger) *siteStrategy {
	return &siteStrategy{
		site:   s,
		logger: logger.WithFields(log, logger.PlatformFields(string(s.platform), s.platform.Label())...),
	}
}

func (s *siteStrategy) Platform() Platform { return s.site.platform }

func (s *siteStrategy) IsResumePage(p *Page) bool {
	if p == nil {
		return false
	}
	return p.URLContains(s.site.resumeURLParts...) || p.Has(s.site.resumeMarkers)
}

func (s *siteStrategy) IsListPage(p *Page) bool {
	if p == nil {
		return false
	}
	return p.URLContains(s.site.listURLParts...) || p.Has(s.site.listMarkers)
}

func (s *siteStrategy) ExtractCurrentResume(p *Page) (result *recruiting.Candidate) {
	if p == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("resume extraction failed",
				zap.String("url", p.Href()),
				zap.String("panic", fmt.Sprint(r)),
			)
			result = nil
		}
	}()

	root := p.Root()
	c := recruiting.NewCandidate(s.site.platform.Label(), p.Href())

	c.Name = FirstText(root, s.site.name...)
	c.CurrentTitle = FirstText(root, s.site.title...)
	s.site.detailRules.Classify(Texts(root, s.site.infoTags)).applyTo(&c)
	c.Skills = recruiting.UniqueSkills(Texts(root, s.site.skills))
	c.WorkHistory = Blocks(root, s.site.work)
	c.EducationHistory = Blocks(root, s.site.education)
	c.ProjectExperience = Blocks(root, s.site.projects)
	c.SelfDescription = FirstText(root, s.site.selfDesc...)

	if main := root.Find(s.site.main).First(); main.Length() > 0 {
		c.RawText = textOf(main)
	} else {
		c.RawText = p.BodyText(DetailRawTextLimit)
	}

	s.logger.Debug("resume extracted",
		zap.String("name", c.Name),
		zap.Int("skills", len(c.Skills)),
		zap.Int("raw_text_length", len([]rune(c.RawText))),
	)

	return &c
}

func (s *siteStrategy) ExtractResumeList(p *Page) (result []recruiting.Candidate) {
	result = []recruiting.Candidate{}
	if p == nil {
		return result
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("resume list extraction failed",
				zap.String("url", p.Href()),
				zap.String("panic", fmt.Sprint(r)),
			)
			result = []recruiting.Candidate{}
		}
	}()

	cards := s.findCards(p)
	skipped := 0

	cards.Each(func(_ int, card *goquery.Selection) {
		name := Text(card, s.site.cardName)
		if name == "" {
			skipped++
			return
		}

		c := recruiting.NewCandidate(s.site.platform.Label(), "")
		c.Name = name
		c.CurrentTitle = Text(card, s.site.cardTitle)
		s.site.cardRules.Classify(Texts(card, s.site.cardTags)).applyTo(&c)
		if s.site.cardSkills != "" {
			c.Skills = recruiting.UniqueSkills(Texts(card, s.site.cardSkills))
		}
		if link := card.Find("a[href]").First(); link.Length() > 0 {
			href, _ := link.Attr("href")
			c.ProfileURL = p.Resolve(href)
		}
		c.RawText = textOf(card)

		result = append(result, c)
	})

	s.logger.Debug("resume list extracted",
		zap.Int("cards", cards.Length()),
		zap.Int("extracted", len(result)),
		zap.Int("skipped_without_name", skipped),
	)

	return result
}

func (s *siteStrategy) findCards(p *Page) *goquery.Selection {
	cards := p.Root().Slice(0, 0)
	for _, selector := range s.site.cards {
		if cards = p.Root().Find(selector); cards.Length() > 0 {
			break
		}
	}
	return cards
}

func textOf(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}
