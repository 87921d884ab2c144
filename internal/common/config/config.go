// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Catalog     CatalogConfig     `mapstructure:"catalog"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Embedder    EmbedderConfig    `mapstructure:"embedder"`
	Recommender RecommenderConfig `mapstructure:"recommender"`
	Client      ClientConfig      `mapstructure:"client"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Address      string `mapstructure:"address"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int    `mapstructure:"write_timeout"` // milliseconds
}

// CatalogConfig selects where assessment records are loaded from.
type CatalogConfig struct {
	Source   string `mapstructure:"source"` // "csv" or "postgres"
	CSVPath  string `mapstructure:"csv_path"`
	JSONPath string `mapstructure:"json_path"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

// EmbedderConfig holds the local sentence-embedding model settings.
type EmbedderConfig struct {
	ModelID       string `mapstructure:"model_id"`
	ModelPath     string `mapstructure:"model_path"`
	TokenizerPath string `mapstructure:"tokenizer_path"`
	OrtLibrary    string `mapstructure:"ort_library"`
	MaxSeqLen     int    `mapstructure:"max_seq_len"`
	Dimension     int    `mapstructure:"dimension"`
	CacheDir      string `mapstructure:"cache_dir"`
	SnapshotPath  string `mapstructure:"snapshot_path"`
}

// RecommenderConfig holds the ranking pipeline settings.
type RecommenderConfig struct {
	TopK              int     `mapstructure:"top_k"`
	MinResults        int     `mapstructure:"min_results"`
	DurationRelaxMins int     `mapstructure:"duration_relax_mins"`
	EntryLevelBoost   float64 `mapstructure:"entry_level_boost"`
	CacheTTL          int     `mapstructure:"cache_ttl"` // milliseconds
}

// ClientConfig holds settings for the recommend API client used by the CLI.
type ClientConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
