package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-screener/internal/recruiting"
	"github.com/spigell/resume-screener/internal/store"
)

func TestSettingsDefaultsFromConfig(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "azure.key")
	require.NoError(t, os.WriteFile(keyFile, []byte("secret\n"), 0o600))

	config := &Config{
		AI: &AIConfig{Azure: &AzureConfig{
			Endpoint:   " https://example.openai.azure.com ",
			APIKeyFile: keyFile,
			Deployment: "gpt-4o",
		}},
		Batch: &BatchConfig{MaxConcurrent: 5},
	}

	defaults, err := settingsDefaults(config)
	require.NoError(t, err)

	assert.Equal(t, "https://example.openai.azure.com", defaults.AIConfig.Endpoint)
	assert.Equal(t, "secret", defaults.AIConfig.APIKey)
	assert.Equal(t, "gpt-4o", defaults.AIConfig.DeploymentName)
	assert.Equal(t, 5, defaults.MaxConcurrent)
	assert.True(t, defaults.Configured())
}

func TestSettingsDefaultsKeepBuiltins(t *testing.T) {
	t.Setenv("AZURE_OPENAI_API_KEY", "")

	defaults, err := settingsDefaults(&Config{
		AI:    &AIConfig{Azure: &AzureConfig{}},
		Batch: &BatchConfig{},
	})
	require.NoError(t, err)

	assert.Equal(t, store.DefaultSettings(), defaults)
}

func TestConfigDecodesDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("ai.provider", "gemini")
	v.Set("exclude-names", []string{"张三"})

	var config *Config
	require.NoError(t, v.Unmarshal(&config))

	assert.Equal(t, "gemini", config.AI.Provider)
	assert.Equal(t, store.DefaultMaxConcurrent, config.Batch.MaxConcurrent)
	assert.Equal(t, []string{"张三"}, config.ExcludeNames)
	assert.NotZero(t, config.Fetch.Timeout)
	assert.NotEmpty(t, config.Server.AllowedOrigins)
}

func TestSettingsPatchFromFlags(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("endpoint", "", "")
	cmd.Flags().String("api-key", "", "")
	cmd.Flags().String("deployment", "", "")
	cmd.Flags().Int("max-concurrent", 0, "")
	cmd.Flags().Bool("auto-extract", false, "")

	require.NoError(t, cmd.Flags().Parse([]string{"--api-key", "k", "--max-concurrent", "4"}))

	patch := settingsPatchFromFlags(cmd)
	require.NotNil(t, patch.AIConfig)
	assert.Nil(t, patch.AIConfig.Endpoint)
	require.NotNil(t, patch.AIConfig.APIKey)
	assert.Equal(t, "k", *patch.AIConfig.APIKey)
	require.NotNil(t, patch.MaxConcurrent)
	assert.Equal(t, 4, *patch.MaxConcurrent)
	assert.Nil(t, patch.AutoExtract)
}

func TestSettingsPatchFromFlagsEmpty(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("endpoint", "", "")
	cmd.Flags().String("api-key", "", "")
	cmd.Flags().String("deployment", "", "")
	cmd.Flags().Int("max-concurrent", 0, "")
	cmd.Flags().Bool("auto-extract", false, "")

	assert.Equal(t, store.SettingsPatch{}, settingsPatchFromFlags(cmd))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", maskSecret(""))
	assert.Equal(t, "****", maskSecret("abc"))
	assert.Equal(t, "****cdef", maskSecret("abcdef"))
}

func TestLoadCriteriaFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
jobTitle: 后端工程师
requiredSkills: [Go, Kubernetes]
minExperienceYears: 3
minSalaryK: 20
maxSalaryK: 35
`), 0o600))

	criteria, err := loadCriteriaFile(path)
	require.NoError(t, err)

	assert.Equal(t, "后端工程师", criteria.JobTitle)
	assert.Equal(t, []string{"Go", "Kubernetes"}, criteria.RequiredSkills)
	require.NotNil(t, criteria.MinExperienceYears)
	assert.Equal(t, 3, *criteria.MinExperienceYears)
	require.NotNil(t, criteria.MaxSalaryK)
	assert.Equal(t, 35.0, *criteria.MaxSalaryK)
}

func TestPrintRanking(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRanking(&buf, []recruiting.Evaluation{
		{CandidateName: "张三", OverallScore: 88, Recommendation: recruiting.StronglyRecommended, Summary: "经验\n丰富"},
		{CandidateName: "李四", OverallScore: 42, Recommendation: recruiting.MaybeConsider},
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "张三")
	assert.Contains(t, lines[1], "强烈推荐")
	assert.Contains(t, lines[1], "经验 丰富")
	assert.Contains(t, lines[2], "42")
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "a b", oneLine(" a\n\tb ", 10))
	assert.Equal(t, "简历…", oneLine("简历全文", 2))
}

func TestBindFlag(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("addr", "", "")
	require.NoError(t, cmd.Flags().Set("addr", "127.0.0.1:9000"))

	v := viper.New()
	require.NoError(t, bindFlag(v, "server.addr", cmd.Flags().Lookup("addr")))
	assert.Equal(t, "127.0.0.1:9000", v.GetString("server.addr"))

	err := bindFlag(v, "exclude-file", cmd.Flags().Lookup("missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exclude-file")
}
