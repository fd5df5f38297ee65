package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// FileName is the base name of the config file (without extension).
const FileName = ".branchlink"

// EnvPrefix prefixes every environment override, e.g. BRANCHLINK_API_TOKEN.
const EnvPrefix = "BRANCHLINK"

// Backends selectable via the backend key.
const (
	BackendAPI  = "api"
	BackendFile = "file"
)

// Config is the full, typed application configuration.
type Config struct {
	Backend string        `mapstructure:"backend"`
	Plain   bool          `mapstructure:"plain"`
	API     APIConfig     `mapstructure:"api"`
	State   StateConfig   `mapstructure:"state"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
}

type APIConfig struct {
	URL     string        `mapstructure:"url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type StateConfig struct {
	Path string `mapstructure:"path"`
}

type CatalogConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
}

var initMu sync.Mutex

// Initialize sets defaults, binds the environment and reads the first config
// file found on the search path. A missing file is not an error.
func Initialize() error {
	return InitializeWithFile("")
}

// InitializeWithFile is Initialize with an explicit config file, which must exist.
func InitializeWithFile(path string) error {
	initMu.Lock()
	defer initMu.Unlock()

	SetDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}
		return nil
	}

	viper.SetConfigName(FileName)
	viper.SetConfigType("toml")
	for _, p := range GetConfigPaths() {
		viper.AddConfigPath(p)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	return nil
}

// Get unmarshals the current viper state into a Config.
func Get() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Backend == "" {
		cfg.Backend = resolveBackend(cfg.API.Token)
	}
	return &cfg, nil
}

// resolveBackend picks the API backend once a token is available.
func resolveBackend(token string) string {
	if token != "" {
		return BackendAPI
	}
	return BackendFile
}

func GetString(key string) string {
	return viper.GetString(key)
}

func GetBool(key string) bool {
	return viper.GetBool(key)
}

func GetInt64(key string) int64 {
	return viper.GetInt64(key)
}

func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// ConfigFileUsed returns the path of the loaded config file, if any.
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}

// IsPlain returns true if plain output mode is enabled
func IsPlain() bool {
	return viper.GetBool("plain")
}
