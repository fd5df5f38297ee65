package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	messages := make([]string, 0, len(e))
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("configuration validation failed:\n%s", strings.Join(messages, "\n"))
}

// Validate validates the current configuration
func Validate() error {
	cfg, err := Get()
	if err != nil {
		return fmt.Errorf("failed to get config for validation: %w", err)
	}

	return ValidateConfig(cfg)
}

// ValidateConfig validates a configuration struct
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	if !slices.Contains(ValidBackends(), cfg.Backend) {
		errs = append(errs, ValidationError{
			Field:   "backend",
			Value:   cfg.Backend,
			Message: fmt.Sprintf("must be one of: %v", ValidBackends()),
		})
	}

	if cfg.Backend == BackendAPI {
		errs = append(errs, validateAPI(&cfg.API)...)
	}
	if cfg.Backend == BackendFile && strings.TrimSpace(cfg.State.Path) == "" {
		errs = append(errs, ValidationError{
			Field:   "state.path",
			Value:   cfg.State.Path,
			Message: "state path cannot be empty",
		})
	}

	if cfg.Catalog.CacheTTL < 0 {
		errs = append(errs, ValidationError{
			Field:   "catalog.cache_ttl",
			Value:   cfg.Catalog.CacheTTL,
			Message: "cache ttl cannot be negative",
		})
	}

	errs = append(errs, validateLogging(&cfg.Logging)...)

	if !slices.Contains(ValidOutputFormats(), cfg.Output.Format) {
		errs = append(errs, ValidationError{
			Field:   "output.format",
			Value:   cfg.Output.Format,
			Message: fmt.Sprintf("must be one of: %v", ValidOutputFormats()),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateAPI(cfg *APIConfig) ValidationErrors {
	var errs ValidationErrors

	if u, err := url.Parse(cfg.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "api.url",
			Value:   cfg.URL,
			Message: "must be an absolute URL",
		})
	}

	if cfg.Token == "" {
		errs = append(errs, ValidationError{
			Field:   "api.token",
			Value:   "",
			Message: "token is required for the api backend",
		})
	}

	if cfg.Timeout <= 0 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout",
			Value:   cfg.Timeout,
			Message: "timeout must be positive",
		})
	}

	if cfg.Timeout > 5*time.Minute {
		errs = append(errs, ValidationError{
			Field:   "api.timeout",
			Value:   cfg.Timeout,
			Message: "timeout should not exceed 5 minutes",
		})
	}

	return errs
}

func validateLogging(cfg *LoggingConfig) ValidationErrors {
	var errs ValidationErrors

	if !slices.Contains(ValidLogLevels(), cfg.Level) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   cfg.Level,
			Message: fmt.Sprintf("must be one of: %v", ValidLogLevels()),
		})
	}

	if !slices.Contains(ValidLogFormats(), cfg.Format) {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("must be one of: %v", ValidLogFormats()),
		})
	}

	return errs
}
