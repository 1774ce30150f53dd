package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidateLogLevel checks if the log level is valid.
func ValidateLogLevel(level string) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", level)
	}
	return nil
}

// ValidateLogFormat checks if the log format is valid.
func ValidateLogFormat(format string) error {
	validFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validFormats[format] {
		return fmt.Errorf("invalid log format: %s (must be json or text)", format)
	}
	return nil
}

// ValidateNonEmpty checks if a string is non-empty.
func ValidateNonEmpty(value string, fieldName string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidateDuration checks if a duration is greater than zero.
func ValidateDuration(duration time.Duration, fieldName string) error {
	if duration <= 0 {
		return fmt.Errorf("%s must be greater than 0", fieldName)
	}
	return nil
}

// ValidatePort checks if a port number is valid.
func ValidatePort(port int, fieldName string) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", fieldName, port)
	}
	return nil
}

// Validate performs comprehensive validation on the configuration.
// All failures are reported together.
func (c *Config) Validate() error {
	var errs []string

	// Webhook validation. The URL's shape is left to the transport.
	if err := ValidateNonEmpty(c.Webhook.URL, "webhook.url"); err != nil {
		errs = append(errs, err.Error())
	}
	if err := ValidateDuration(c.Webhook.Timeout, "webhook.timeout"); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Webhook.ChunkSize < 1 {
		errs = append(errs, fmt.Sprintf("webhook.chunk_size must be at least 1, got %d", c.Webhook.ChunkSize))
	}

	// Server validation
	if err := ValidatePort(c.Server.Port, "server.port"); err != nil {
		errs = append(errs, err.Error())
	}
	if err := ValidateDuration(c.Server.ReadTimeout, "server.read_timeout"); err != nil {
		errs = append(errs, err.Error())
	}
	if err := ValidateDuration(c.Server.WriteTimeout, "server.write_timeout"); err != nil {
		errs = append(errs, err.Error())
	}
	if err := ValidateDuration(c.Server.RequestTimeout, "server.request_timeout"); err != nil {
		errs = append(errs, err.Error())
	}
	if err := ValidateDuration(c.Server.ShutdownTimeout, "server.shutdown_timeout"); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Server.RequestTimeout >= c.Server.WriteTimeout {
		errs = append(errs, "server.request_timeout must be less than server.write_timeout")
	}

	// Logging validation
	if err := ValidateLogLevel(c.Logging.Level); err != nil {
		errs = append(errs, err.Error())
	}
	if err := ValidateLogFormat(c.Logging.Format); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
