package kuriosity

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestConfig_Validate(t *testing.T) {
	var testCases = []struct {
		description string
		mutate      func(c *Config)
		expectErr   bool
	}{
		{description: "defaults", mutate: func(c *Config) {}},
		{description: "allowed base factor", mutate: func(c *Config) { c.BaseFactor = 0.01 }},
		{description: "unlisted base factor", mutate: func(c *Config) { c.BaseFactor = 2 }, expectErr: true},
		{description: "zero base factor", mutate: func(c *Config) { c.BaseFactor = 0 }, expectErr: true},
		{description: "fs store without url", mutate: func(c *Config) { c.Store.Kind = StoreFS }, expectErr: true},
		{description: "fs store", mutate: func(c *Config) { c.Store = StoreConfig{Kind: StoreFS, URL: "/tmp/saves"} }},
		{description: "sqlite default path", mutate: func(c *Config) { c.Store.Kind = StoreSQLite }},
		{description: "unknown store", mutate: func(c *Config) { c.Store.Kind = "redis" }, expectErr: true},
		{description: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }, expectErr: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			cfg := DefaultConfig()
			testCase.mutate(cfg)
			err := cfg.Validate()
			if testCase.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
	var nilConfig *Config
	assert.NoError(t, nilConfig.Validate())
}

func TestLoadConfig(t *testing.T) {
	URL := filepath.Join(t.TempDir(), "kuriosity.yaml")
	require.NoError(t, os.WriteFile(URL, []byte(`baseFactor: 5
seed: 7
catalog:
  url: /opt/kuriosity/experiments
  allow: ["kuriosity_experiment_*"]
store:
  kind: fs
  url: /opt/kuriosity/saves
logging:
  level: debug
metrics:
  enabled: true
`), 0o644))
	t.Setenv("KURIOSITY_BASE_FACTOR", "10")
	t.Setenv("KURIOSITY_CATALOG_BLOCK", "kuriosity_experiment_ufk,kuriosity_experiment_bugs")
	t.Setenv("KURIOSITY_TRACING_ENABLED", "true")

	cfg, err := LoadConfig(context.Background(), URL)
	require.NoError(t, err)
	assert.Equal(t, 10.0, cfg.BaseFactor)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, "/opt/kuriosity/experiments", cfg.Catalog.URL)
	assert.Equal(t, []string{"kuriosity_experiment_*"}, cfg.Catalog.Allow)
	assert.Equal(t, []string{"kuriosity_experiment_ufk", "kuriosity_experiment_bugs"}, cfg.Catalog.Block)
	assert.Equal(t, StoreConfig{Kind: StoreFS, URL: "/opt/kuriosity/saves"}, cfg.Store)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.Tracing.Enabled)

	p := cfg.Catalog.Policy()
	require.NotNil(t, p)
	assert.True(t, p.IsAllowed("kuriosity_experiment_space_sickness"))
	assert.False(t, p.IsAllowed("kuriosity_experiment_bugs"))
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadConfig(context.Background(), filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	URL := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(URL, []byte("baseFactor: 3\n"), 0o644))
	_, err = LoadConfig(context.Background(), URL)
	assert.Error(t, err)
}

func TestLoggingConfig_NewLogger(t *testing.T) {
	logger, err := (&LoggingConfig{Level: "warn", Development: true}).NewLogger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = (&LoggingConfig{Level: "loud"}).NewLogger()
	assert.Error(t, err)
}
