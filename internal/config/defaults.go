package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultAPIURL    = "https://api.supabase.com"
	DefaultStatePath = "branchlink.state.toml"
)

func SetDefaults() {
	applyDefaults(viper.GetViper())
}

func applyDefaults(v *viper.Viper) {
	// An empty backend is resolved from the token in Get.
	v.SetDefault("backend", "")
	v.SetDefault("plain", false)

	v.SetDefault("api.url", DefaultAPIURL)
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", 30*time.Second)

	v.SetDefault("state.path", DefaultStatePath)

	v.SetDefault("catalog.cache_ttl", 30*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("output.format", "text")

	// Selection context, normally given as flags.
	v.SetDefault("connection", 0)
	v.SetDefault("project", "")
	v.SetDefault("org", 0)
}

func DefaultConfig() *Config {
	v := viper.New()
	applyDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Defaults always unmarshal; keep a literal fallback anyway.
		cfg = Config{
			API:     APIConfig{URL: DefaultAPIURL, Timeout: 30 * time.Second},
			State:   StateConfig{Path: DefaultStatePath},
			Catalog: CatalogConfig{CacheTTL: 30 * time.Second},
			Logging: LoggingConfig{Level: "info", Format: "text"},
			Output:  OutputConfig{Format: "text"},
		}
	}
	cfg.Backend = BackendFile
	return &cfg
}

func ValidBackends() []string {
	return []string{BackendAPI, BackendFile}
}

func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

func ValidLogFormats() []string {
	return []string{"text", "json"}
}

func ValidOutputFormats() []string {
	return []string{"text", "json", "yaml"}
}
