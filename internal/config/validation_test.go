package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Config)
		wantFields []string
	}{
		{
			name:   "valid default config",
			mutate: func(*Config) {},
		},
		{
			name:       "unknown backend",
			mutate:     func(c *Config) { c.Backend = "ftp" },
			wantFields: []string{"backend"},
		},
		{
			name: "api backend without token",
			mutate: func(c *Config) {
				c.Backend = BackendAPI
			},
			wantFields: []string{"api.token"},
		},
		{
			name: "api backend with bad url and timeout",
			mutate: func(c *Config) {
				c.Backend = BackendAPI
				c.API.Token = "t"
				c.API.URL = "not a url"
				c.API.Timeout = 0
			},
			wantFields: []string{"api.url", "api.timeout"},
		},
		{
			name: "timeout too large",
			mutate: func(c *Config) {
				c.Backend = BackendAPI
				c.API.Token = "t"
				c.API.Timeout = 10 * time.Minute
			},
			wantFields: []string{"api.timeout"},
		},
		{
			name:       "file backend without state path",
			mutate:     func(c *Config) { c.State.Path = " " },
			wantFields: []string{"state.path"},
		},
		{
			name:       "negative cache ttl",
			mutate:     func(c *Config) { c.Catalog.CacheTTL = -time.Second },
			wantFields: []string{"catalog.cache_ttl"},
		},
		{
			name: "bad logging and output",
			mutate: func(c *Config) {
				c.Logging.Level = "trace"
				c.Logging.Format = "xml"
				c.Output.Format = "csv"
			},
			wantFields: []string{"logging.level", "logging.format", "output.format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)

			fields := make([]string, 0, len(verrs))
			for _, v := range verrs {
				fields = append(fields, v.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	assert.Equal(t, "no validation errors", ValidationErrors{}.Error())

	errs := ValidationErrors{
		{Field: "backend", Value: "ftp", Message: "must be one of: [api file]"},
	}
	assert.Contains(t, errs.Error(), "configuration validation failed")
	assert.Contains(t, errs.Error(), "'backend'")
}
