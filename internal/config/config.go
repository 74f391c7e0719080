// Package config loads application configuration and owns the global
// logger setup.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Warehouse WarehouseConfig `yaml:"warehouse" mapstructure:"warehouse"`
	Metadata  MetadataConfig  `yaml:"metadata" mapstructure:"metadata"`
	Importers ImportersConfig `yaml:"importers" mapstructure:"importers"`
	Regions   RegionsConfig   `yaml:"regions" mapstructure:"regions"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Snapshot  SnapshotConfig  `yaml:"snapshot" mapstructure:"snapshot"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// WarehouseConfig configures the BigQuery event source.
type WarehouseConfig struct {
	ProjectID       string `yaml:"project_id" mapstructure:"project_id"`
	CredentialsFile string `yaml:"credentials_file" mapstructure:"credentials_file"`
	EventsTable     string `yaml:"events_table" mapstructure:"events_table"`
	MetadataTable   string `yaml:"metadata_table" mapstructure:"metadata_table"`
	QueriesPerMin   int    `yaml:"queries_per_min" mapstructure:"queries_per_min"`
	QueryTimeoutSec int    `yaml:"query_timeout_secs" mapstructure:"query_timeout_secs"`
}

// QueryTimeout returns the per-query timeout as a duration.
func (w WarehouseConfig) QueryTimeout() time.Duration {
	return time.Duration(w.QueryTimeoutSec) * time.Second
}

// MetadataConfig selects where the posting snapshot comes from. When File is
// set it overrides the warehouse table.
type MetadataConfig struct {
	File  string `yaml:"file" mapstructure:"file"`
	Sheet string `yaml:"sheet" mapstructure:"sheet"`
}

// ImportersConfig points at the importer_id mapping CSV.
type ImportersConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// RegionsConfig optionally overrides the embedded region taxonomy.
type RegionsConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// CacheConfig sets the dataset TTLs.
type CacheConfig struct {
	EventTTLMinutes    int `yaml:"event_ttl_minutes" mapstructure:"event_ttl_minutes"`
	MetadataTTLMinutes int `yaml:"metadata_ttl_minutes" mapstructure:"metadata_ttl_minutes"`
}

// EventTTL returns the event cache TTL as a duration.
func (c CacheConfig) EventTTL() time.Duration {
	return time.Duration(c.EventTTLMinutes) * time.Minute
}

// MetadataTTL returns the metadata cache TTL as a duration.
func (c CacheConfig) MetadataTTL() time.Duration {
	return time.Duration(c.MetadataTTLMinutes) * time.Minute
}

// SnapshotConfig configures the on-disk dataset snapshot store.
type SnapshotConfig struct {
	Path    string `yaml:"path" mapstructure:"path"`
	Disable bool   `yaml:"disable" mapstructure:"disable"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DASHBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("warehouse.queries_per_min", 30)
	v.SetDefault("warehouse.query_timeout_secs", 120)
	v.SetDefault("importers.file", "importers.csv")
	v.SetDefault("cache.event_ttl_minutes", 30)
	v.SetDefault("cache.metadata_ttl_minutes", 30)
	v.SetDefault("snapshot.path", "snapshots.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the config can support the requested mode. Modes
// correspond to the CLI commands that need external resources.
func (c *Config) Validate(mode string) error {
	var missing []string

	needWarehouse := func() {
		if c.Warehouse.ProjectID == "" {
			missing = append(missing, "warehouse.project_id is required")
		}
		if c.Warehouse.EventsTable == "" {
			missing = append(missing, "warehouse.events_table is required")
		}
		if c.Metadata.File == "" && c.Warehouse.MetadataTable == "" {
			missing = append(missing, "metadata.file or warehouse.metadata_table is required")
		}
	}

	switch mode {
	case "serve":
		needWarehouse()
		if c.Server.Port <= 0 {
			missing = append(missing, "server.port must be > 0")
		}
	case "report", "refresh":
		needWarehouse()
	case "classify":
		// Works entirely from the embedded taxonomy.
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Cache.EventTTLMinutes < 0 || c.Cache.MetadataTTLMinutes < 0 {
		missing = append(missing, "cache TTLs must be >= 0")
	}

	if len(missing) > 0 {
		return eris.New("config: " + strings.Join(missing, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
