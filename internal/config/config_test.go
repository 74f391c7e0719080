package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 30, cfg.Warehouse.QueriesPerMin)
	assert.Equal(t, 120, cfg.Warehouse.QueryTimeoutSec)
	assert.Equal(t, "importers.csv", cfg.Importers.File)
	assert.Equal(t, "snapshots.db", cfg.Snapshot.Path)
	assert.Equal(t, 30*time.Minute, cfg.Cache.EventTTL())
	assert.Equal(t, 30*time.Minute, cfg.Cache.MetadataTTL())
}

func TestLoadFromYAML(t *testing.T) {
	chdirTemp(t)

	yaml := `
warehouse:
  project_id: jobs-reporting
  events_table: analytics.job_events
log:
  level: debug
  format: console
server:
  port: 9090
cache:
  event_ttl_minutes: 5
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "jobs-reporting", cfg.Warehouse.ProjectID)
	assert.Equal(t, "analytics.job_events", cfg.Warehouse.EventsTable)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Cache.EventTTL())
	// Defaults still apply for unset values
	assert.Equal(t, 30, cfg.Warehouse.QueriesPerMin)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	chdirTemp(t)

	yaml := `
log:
  level: debug
warehouse:
  project_id: from-file
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("DASHBOARD_LOG_LEVEL", "warn")
	t.Setenv("DASHBOARD_WAREHOUSE_PROJECT_ID", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "from-env", cfg.Warehouse.ProjectID)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("DASHBOARD_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

// validServe returns a Config that passes serve-mode validation.
func validServe() *Config {
	cfg := &Config{}
	cfg.Warehouse.ProjectID = "jobs-reporting"
	cfg.Warehouse.EventsTable = "analytics.job_events"
	cfg.Warehouse.MetadataTable = "analytics.job_metadata"
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateServe(t *testing.T) {
	assert.NoError(t, validServe().Validate("serve"))
}

func TestValidateServe_MissingWarehouse(t *testing.T) {
	cfg := validServe()
	cfg.Warehouse.ProjectID = ""
	cfg.Warehouse.EventsTable = ""

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warehouse.project_id is required")
	assert.Contains(t, err.Error(), "warehouse.events_table is required")
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validServe()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateReport_FileMetadataAllowed(t *testing.T) {
	cfg := validServe()
	cfg.Warehouse.MetadataTable = ""
	cfg.Metadata.File = "export.xlsx"

	assert.NoError(t, cfg.Validate("report"))

	cfg.Metadata.File = ""
	err := cfg.Validate("report")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metadata.file or warehouse.metadata_table")
}

func TestValidateClassify_NoExternalDeps(t *testing.T) {
	assert.NoError(t, (&Config{}).Validate("classify"))
}

func TestValidateUnknownMode(t *testing.T) {
	err := validServe().Validate("unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateNegativeTTL(t *testing.T) {
	cfg := validServe()
	cfg.Cache.EventTTLMinutes = -1

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache TTLs must be >= 0")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
