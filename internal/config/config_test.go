package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chtemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chtemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "index_out/vectors.bin", cfg.Index.VectorPath)
	assert.Equal(t, "index_out/meta.json", cfg.Index.MetaPath)
	assert.Equal(t, "text-embedding-3-small", cfg.Embed.Model)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.Model)
	assert.Equal(t, int64(8192), cfg.Anthropic.MaxTokens)
	assert.Equal(t, 500, cfg.Extraction.RetrieveTopK)
	assert.Equal(t, 5, cfg.Extraction.CompanyTopN)
	assert.Equal(t, 30, cfg.Extraction.PassagesPerCompany)
	assert.Equal(t, 160, cfg.Extraction.ExcerptMaxLen)
	assert.Equal(t, 2, cfg.Extraction.MaxAttempts)
	assert.Equal(t, "zh-TW", cfg.News.Locale)
	assert.Equal(t, "TW:zh-Hant", cfg.News.Edition)
	assert.Equal(t, 12, cfg.News.RerankTopK)
	assert.Equal(t, 30, cfg.Judge.BriefLimit)
	assert.Equal(t, "claims.db", cfg.Store.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	chtemp(t)

	yaml := `
index:
  vector_path: /data/vectors.bin
extraction:
  retrieve_top_k: 100
log:
  level: debug
  format: console
server:
  port: 9090
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/vectors.bin", cfg.Index.VectorPath)
	assert.Equal(t, 100, cfg.Extraction.RetrieveTopK)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults still apply for unset values
	assert.Equal(t, 30, cfg.Extraction.PassagesPerCompany)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	chtemp(t)

	yaml := `
log:
  level: debug
store:
  path: from-file.db
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("CLAIMS_STORE_PATH", "from-env.db")
	t.Setenv("CLAIMS_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "from-env.db", cfg.Store.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chtemp(t)

	t.Setenv("CLAIMS_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerBadLevel(t *testing.T) {
	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
