package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(filename, []byte(content), 0644))
	return filename
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{"tracked_offerings": ["Swim Lesson Level 1"]}`))
	require.NoError(t, err)

	require.Equal(t, "https://secure.rec1.com/CA/calabasas-ca/catalog/index", cfg.CatalogURL)
	require.Equal(t, []string{"Aquatics Programs", "Aquatics"}, cfg.CategoryLabels)
	require.Equal(t, "baseline.json", cfg.BaselineFile)
	require.Equal(t, 15, cfg.Scroll.Increments)
	require.Equal(t, 4, *cfg.Columns.FallbackDateColumn)
	require.Equal(t, 5, *cfg.Columns.FallbackTimeColumn)
	require.True(t, cfg.HeadlessMode())
	require.Equal(t, "secure.rec1.com", cfg.SiteHost())
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{
		"catalog_url": "https://rec.example.org/catalog",
		"headless": false,
		"scroll": {"increments": 3, "delta": 500, "settle_ms": 50},
		"columns": {"date_keywords": ["when"], "fallback_date_column": 2, "fallback_time_column": 3}
	}`))
	require.NoError(t, err)

	require.Equal(t, "rec.example.org", cfg.SiteHost())
	require.False(t, cfg.HeadlessMode())
	require.Equal(t, 3, cfg.Scroll.Increments)
	require.Equal(t, []string{"when"}, cfg.Columns.DateKeywords)
	require.Equal(t, 2, *cfg.Columns.FallbackDateColumn)
	require.Equal(t, []string{"time"}, cfg.Columns.TimeKeywords)
}

func TestLoadConfigZeroFallbackColumns(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{
		"columns": {"fallback_date_column": 0, "fallback_time_column": 0}
	}`))
	require.NoError(t, err)

	require.Equal(t, 0, *cfg.Columns.FallbackDateColumn)
	require.Equal(t, 0, *cfg.Columns.FallbackTimeColumn)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
