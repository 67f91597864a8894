package extract

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Platform identifies a supported recruiting site.
type Platform string

const (
	PlatformBoss    Platform = "boss"
	PlatformLiepin  Platform = "liepin"
	PlatformZhaopin Platform = "zhaopin"
)

var platformLabels = map[Platform]string{
	PlatformBoss:    "Boss直聘",
	PlatformLiepin:  "猎聘",
	PlatformZhaopin: "智联招聘",
}

// Label is the platform tag stored on extracted records.
func (p Platform) Label() string {
	if label, ok := platformLabels[p]; ok {
		return label
	}
	return string(p)
}

// ParsePlatform accepts either the short name or the display label.
func ParsePlatform(value string) (Platform, error) {
	value = strings.TrimSpace(value)
	for platform, label := range platformLabels {
		if strings.EqualFold(value, string(platform)) || value == label {
			return platform, nil
		}
	}
	return "", fmt.Errorf("unsupported platform: %q", value)
}

// DetectPlatform identifies the platform from a page address by host.
func DetectPlatform(rawURL string) (Platform, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	host := strings.ToLower(parsed.Hostname())
	switch {
	case strings.HasSuffix(host, "zhipin.com"):
		return PlatformBoss, true
	case strings.HasSuffix(host, "liepin.com"):
		return PlatformLiepin, true
	case strings.HasSuffix(host, "zhaopin.com"):
		return PlatformZhaopin, true
	default:
		return "", false
	}
}

// Registry holds one Strategy per supported platform.
type Registry struct {
	strategies map[Platform]Strategy
}

// NewRegistry builds the registry of all built-in platforms.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		strategies: map[Platform]Strategy{
			PlatformBoss:    NewBoss(logger),
			PlatformLiepin:  NewLiepin(logger),
			PlatformZhaopin: NewZhaopin(logger),
		},
	}
}

// Get returns the strategy for platform.
func (r *Registry) Get(platform Platform) (Strategy, error) {
	s, ok := r.strategies[platform]
	if !ok {
		return nil, fmt.Errorf("no extraction strategy for platform %q", platform)
	}
	return s, nil
}

// Resolve picks a strategy by explicit platform name, falling back to the page host.
func (r *Registry) Resolve(platform, pageURL string) (Strategy, error) {
	if strings.TrimSpace(platform) != "" {
		p, err := ParsePlatform(platform)
		if err != nil {
			return nil, err
		}
		return r.Get(p)
	}

	p, ok := DetectPlatform(pageURL)
	if !ok {
		return nil, fmt.Errorf("cannot detect platform from url %q, pass it explicitly (one of %s)",
			pageURL, strings.Join(r.Names(), ", "))
	}
	return r.Get(p)
}

// Names lists registered platform names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.strategies))
	for p := range r.strategies {
		names = append(names, string(p))
	}
	sort.Strings(names)
	return names
}
