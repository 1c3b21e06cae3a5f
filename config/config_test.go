package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CONFIG_FILE), []byte(body), 0o644))
	return dir
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("PRISMIC_API_ENDPOINT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("HOME_PAGE_SIZE", "")

	dir := writeConfig(t, "prismic:\n  endpoint: https://blog.cdn.prismic.io/api/v2\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://blog.cdn.prismic.io/api/v2", cfg.Prismic.Endpoint)
	assert.Equal(t, DefaultHTTPAddr, cfg.HTTP.Addr)
	assert.Equal(t, DefaultHomePageSize, cfg.Blog.HomePageSize)
	assert.Equal(t, DefaultMaxLoadMore, cfg.Blog.MaxLoadMore)
	assert.Equal(t, DefaultClientTimeout, cfg.Prismic.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, DefaultExportDir, cfg.Export.OutDir)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("PRISMIC_API_ENDPOINT", "https://other.cdn.prismic.io/api/v2")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("HOME_PAGE_SIZE", "5")

	dir := writeConfig(t, `
prismic:
  endpoint: https://blog.cdn.prismic.io/api/v2
  timeout: 3s
blog:
  home_page_size: 2
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://other.cdn.prismic.io/api/v2", cfg.Prismic.Endpoint)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, ":9999", cfg.HTTP.Addr)
	assert.Equal(t, 5, cfg.Blog.HomePageSize)
	assert.Equal(t, 3*time.Second, cfg.Prismic.Timeout)
}

func TestLoadRejectsMissingEndpoint(t *testing.T) {
	t.Setenv("PRISMIC_API_ENDPOINT", "")
	dir := writeConfig(t, "blog:\n  home_page_size: 1\n")

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidEndpoint(t *testing.T) {
	t.Setenv("PRISMIC_API_ENDPOINT", "")
	dir := writeConfig(t, "prismic:\n  endpoint: not a url\n")

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := AppConfig{Blog: BlogConfig{Timezone: "Nowhere/Invalid"}}
	assert.Equal(t, time.UTC, cfg.Location())
}
