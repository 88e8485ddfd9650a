package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the loaded configuration and reports every invalid field at once
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s (got %v)", fe.Field(), fe.Tag(), fe.Value()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// Warnings returns non-fatal issues worth logging at startup
func Warnings(cfg *Config) []string {
	var warnings []string

	if cfg.ReadOnly() {
		warnings = append(warnings, "ACCOUNT is not set - actions are disabled, running read-only")
	}
	if cfg.ClockTickInterval > cfg.ClockPollInterval {
		warnings = append(warnings, "CLOCK_TICK_INTERVAL is longer than CLOCK_POLL_INTERVAL - displayed time will lag between polls")
	}
	if cfg.Environment == "prod" && cfg.LogFormat != "json" {
		warnings = append(warnings, "LOG_FORMAT should be json in prod")
	}

	return warnings
}
