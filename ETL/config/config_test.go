package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigDefaults(t *testing.T) {
	config := GetConfig()

	assert.Len(t, config.Pipeline.AllowedCountries, 29)
	assert.Equal(t, 500000, config.Pipeline.MaxMergeRows)
	assert.Equal(t, 5, config.Pipeline.FallbackMinPairs)
	assert.Equal(t, 25, config.Pipeline.DefaultTopN)
	assert.Equal(t, 50, config.Pipeline.MaxTopN)
	assert.Equal(t, []string{FlowsFileName, CountriesFileName, SectorsFileName}, config.Source.RequiredFiles())
	require.NoError(t, Validate(config))

	// Изменение копии не затрагивает значения по умолчанию
	config.Pipeline.AllowedCountries[0] = "XX"
	assert.Equal(t, "AT", DefaultAllowedCountries[0])
}

func TestLoadYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flowmap.yaml")
	yamlData := `
addr: ":9090"
source:
  backend: local
  local_dir: /data/flows
pipeline:
  default_top_n: 10
`
	require.NoError(t, os.WriteFile(path, []byte(yamlData), 0o644))

	t.Setenv("FLOWMAP_MAX_MERGE_ROWS", "1000")
	t.Setenv("FLOWMAP_ALLOWED_COUNTRIES", "de, fr ,it")

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", config.Addr)
	assert.Equal(t, BackendLocal, config.Source.Backend)
	assert.Equal(t, "/data/flows", config.Source.LocalDir)
	assert.Equal(t, 10, config.Pipeline.DefaultTopN)
	assert.Equal(t, 1000, config.Pipeline.MaxMergeRows)
	assert.Equal(t, []string{"DE", "FR", "IT"}, config.Pipeline.AllowedCountries)
	// Значения, не указанные в файле, берутся по умолчанию
	assert.Equal(t, FlowsFileName, config.Source.FlowsFile)
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown backend", func(c *Config) { c.Source.Backend = "ftp" }},
		{"s3 without bucket", func(c *Config) { c.Source.Backend = BackendS3 }},
		{"default top above max", func(c *Config) { c.Pipeline.DefaultTopN = 60 }},
		{"negative row cap", func(c *Config) { c.Pipeline.MaxMergeRows = -1 }},
		{"bad country code", func(c *Config) { c.Pipeline.AllowedCountries = []string{"DEU"} }},
		{"sql without dsn", func(c *Config) {
			c.Source.Backend = BackendSQL
			c.Source.Database = DatabaseConfig{Driver: "sqlite"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := GetConfig()
			tt.mutate(&config)
			assert.Error(t, Validate(config))
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	mysqlCfg := DefaultDatabaseConfig
	mysqlCfg.Password = "secret"
	assert.Equal(t, "root:secret@tcp(localhost:3306)/trade_flows?parseTime=true", mysqlCfg.DSN())

	sqliteCfg := DatabaseConfig{Driver: "sqlite", Path: "/tmp/flows.db"}
	assert.Equal(t, "/tmp/flows.db", sqliteCfg.DSN())

	raw := DatabaseConfig{Driver: "mysql", RawDSN: "u:p@/db"}
	assert.Equal(t, "u:p@/db", raw.DSN())
}
