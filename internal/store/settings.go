package store

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/recruiting"
)

const (
	DefaultDeployment    = "gpt-5.2"
	DefaultMaxConcurrent = 3
)

// AIConfig locates the evaluation endpoint.
type AIConfig struct {
	Endpoint       string `json:"endpoint" validate:"omitempty,url"`
	APIKey         string `json:"apiKey"`
	DeploymentName string `json:"deploymentName"`
}

// Settings is the persisted settings record.
type Settings struct {
	AIConfig        AIConfig            `json:"aiConfig"`
	DefaultCriteria recruiting.Criteria `json:"defaultCriteria"`
	AutoExtract     bool                `json:"autoExtract"`
	MaxConcurrent   int                 `json:"maxConcurrent" validate:"min=1,max=20"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		AIConfig:      AIConfig{DeploymentName: DefaultDeployment},
		MaxConcurrent: DefaultMaxConcurrent,
	}
}

// Configured reports whether both the endpoint and the API key are set.
func (s Settings) Configured() bool {
	return strings.TrimSpace(s.AIConfig.Endpoint) != "" && strings.TrimSpace(s.AIConfig.APIKey) != ""
}

// Validate checks the settings record.
func (s Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return err
	}
	return s.DefaultCriteria.Validate()
}

// AIConfigPatch carries the endpoint fields to change.
type AIConfigPatch struct {
	Endpoint       *string `json:"endpoint,omitempty"`
	APIKey         *string `json:"apiKey,omitempty"`
	DeploymentName *string `json:"deploymentName,omitempty"`
}

// SettingsPatch is a partial settings update; nil fields are left unchanged.
type SettingsPatch struct {
	AIConfig        *AIConfigPatch       `json:"aiConfig,omitempty"`
	DefaultCriteria *recruiting.Criteria `json:"defaultCriteria,omitempty"`
	AutoExtract     *bool                `json:"autoExtract,omitempty"`
	MaxConcurrent   *int                 `json:"maxConcurrent,omitempty"`
}

// Apply returns s with patch merged over it.
func (s Settings) Apply(patch SettingsPatch) Settings {
	if p := patch.AIConfig; p != nil {
		if p.Endpoint != nil {
			s.AIConfig.Endpoint = strings.TrimSpace(*p.Endpoint)
		}
		if p.APIKey != nil {
			s.AIConfig.APIKey = strings.TrimSpace(*p.APIKey)
		}
		if p.DeploymentName != nil {
			s.AIConfig.DeploymentName = strings.TrimSpace(*p.DeploymentName)
		}
	}
	if patch.DefaultCriteria != nil {
		s.DefaultCriteria = *patch.DefaultCriteria
	}
	if patch.AutoExtract != nil {
		s.AutoExtract = *patch.AutoExtract
	}
	if patch.MaxConcurrent != nil {
		s.MaxConcurrent = *patch.MaxConcurrent
	}
	return s
}

// legacySettings is the record shape written before the endpoint config was nested.
type legacySettings struct {
	AutoExtract     *bool                `mapstructure:"autoExtract"`
	MaxConcurrent   *int                 `mapstructure:"maxConcurrent"`
	DefaultCriteria *recruiting.Criteria `mapstructure:"defaultCriteria"`
}

// Settings returns the stored settings over the defaults. Legacy records are migrated and
// rewritten once.
func (s *Store) Settings(ctx context.Context) (Settings, error) {
	var raw map[string]any
	found, err := s.get(ctx, KeySettings, &raw)
	if err != nil {
		return Settings{}, err
	}
	if !found || raw == nil {
		return s.defaults, nil
	}

	if _, nested := raw["aiConfig"].(map[string]any); !nested {
		return s.migrateLegacy(ctx, raw)
	}

	settings, err := cloneSettings(s.defaults)
	if err != nil {
		return Settings{}, err
	}
	if _, err := s.get(ctx, KeySettings, &settings); err != nil {
		return Settings{}, err
	}
	if strings.TrimSpace(settings.AIConfig.DeploymentName) == "" {
		settings.AIConfig.DeploymentName = s.defaults.AIConfig.DeploymentName
	}
	return settings, nil
}

func (s *Store) migrateLegacy(ctx context.Context, raw map[string]any) (Settings, error) {
	var legacy legacySettings
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &legacy,
	})
	if err != nil {
		return Settings{}, eris.Wrap(err, "settings: create legacy decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return Settings{}, eris.Wrap(err, "settings: decode legacy record")
	}

	migrated, err := cloneSettings(s.defaults)
	if err != nil {
		return Settings{}, err
	}
	if legacy.AutoExtract != nil {
		migrated.AutoExtract = *legacy.AutoExtract
	}
	if legacy.MaxConcurrent != nil {
		migrated.MaxConcurrent = *legacy.MaxConcurrent
	}
	if legacy.DefaultCriteria != nil {
		migrated.DefaultCriteria = *legacy.DefaultCriteria
	}

	if err := s.put(ctx, KeySettings, migrated); err != nil {
		return Settings{}, err
	}

	s.logger.Info("migrated legacy settings record",
		zap.Bool("auto_extract", migrated.AutoExtract),
		zap.Int("max_concurrent", migrated.MaxConcurrent),
	)

	return migrated, nil
}

// cloneSettings deep-copies s so decoding over it never writes through shared pointers.
func cloneSettings(s Settings) (Settings, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return Settings{}, eris.Wrap(err, "settings: encode defaults")
	}
	var clone Settings
	if err := json.Unmarshal(data, &clone); err != nil {
		return Settings{}, eris.Wrap(err, "settings: decode defaults")
	}
	return clone, nil
}

// SaveSettings merges patch over the current settings, validates and stores the result.
func (s *Store) SaveSettings(ctx context.Context, patch SettingsPatch) (Settings, error) {
	current, err := s.Settings(ctx)
	if err != nil {
		return Settings{}, err
	}

	next := current.Apply(patch)
	if err := next.Validate(); err != nil {
		return Settings{}, eris.Wrap(err, "settings: invalid")
	}

	if err := s.put(ctx, KeySettings, next); err != nil {
		return Settings{}, err
	}
	return next, nil
}
