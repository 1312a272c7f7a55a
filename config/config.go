package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the portal.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Sync    SyncConfig    `yaml:"sync"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// StorageConfig locates the embedded databases. All three live under
// Dir so the whole portal state is one directory.
type StorageConfig struct {
	Dir string `yaml:"dir"`
}

// AuthConfig names the environment variable carrying the shared
// service token. The token itself never lives in the config file.
type AuthConfig struct {
	TokenEnv string `yaml:"token_env"`
}

// IngestConfig holds ingestion settings.
type IngestConfig struct {
	RootPrefix string `yaml:"root_prefix"` // link prefix denoting the document root
}

// SyncConfig holds bulk-sync file selection.
type SyncConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// SearchConfig holds search index settings.
type SearchConfig struct {
	Enabled bool `yaml:"enabled"`
	Limit   int  `yaml:"limit"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// MetricsConfig holds the optional Prometheus listener address.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the listener
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Dir: ".dochub",
		},
		Auth: AuthConfig{
			TokenEnv: "DOCHUB_TOKEN",
		},
		Ingest: IngestConfig{
			RootPrefix: "docs",
		},
		Sync: SyncConfig{
			Includes: []string{"**/*.md"},
			Excludes: []string{"**/node_modules/**", "**/.git/**", "**/README.md"},
		},
		Search: SearchConfig{
			Enabled: true,
			Limit:   20,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory, trying dochub.yaml
// and then .dochub/config.yaml before falling back to defaults.
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "dochub.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".dochub", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ServiceToken reads the configured token environment variable.
func (c *Config) ServiceToken() string {
	return os.Getenv(c.Auth.TokenEnv)
}

// ResolveStorageDir anchors a relative storage directory at base, so
// the databases land under the directory a command targets rather than
// the process working directory. Absolute paths are left alone.
func (c *Config) ResolveStorageDir(base string) {
	if !filepath.IsAbs(c.Storage.Dir) {
		c.Storage.Dir = filepath.Join(base, c.Storage.Dir)
	}
}

// MetadataDBPath returns the path of the metadata database.
func (c *Config) MetadataDBPath() string {
	return filepath.Join(c.Storage.Dir, "metadata.db")
}

// BlobDBPath returns the path of the blob database.
func (c *Config) BlobDBPath() string {
	return filepath.Join(c.Storage.Dir, "blobs.db")
}

// IndexDBPath returns the path of the search index database.
func (c *Config) IndexDBPath() string {
	return filepath.Join(c.Storage.Dir, "search.db")
}

// EnsureStorageDir creates the storage directory if needed.
func (c *Config) EnsureStorageDir() error {
	return os.MkdirAll(c.Storage.Dir, 0755)
}
