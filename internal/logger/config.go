package logger

import (
	"log/slog"
	"strings"
)

// Config describes how the process-wide logger is built
type Config struct {
	Level       string
	Format      string
	ServiceName string
	Version     string
	Environment string
	AddSource   bool
}

var levelsByName = map[string]slog.Level{
	LogLevelDebug:   slog.LevelDebug,
	LogLevelInfo:    slog.LevelInfo,
	LogLevelWarn:    slog.LevelWarn,
	LogLevelWarning: slog.LevelWarn,
	LogLevelError:   slog.LevelError,
}

// NewConfig builds a Config from explicit values. Empty fields take the
// defaults of the given environment.
func NewConfig(level, format, serviceName, version, environment string, addSource bool) Config {
	return Config{
		Level:       level,
		Format:      format,
		ServiceName: serviceName,
		Version:     version,
		Environment: environment,
		AddSource:   addSource,
	}.withDefaults()
}

// DefaultsFor returns the logger defaults of an environment. Production logs
// JSON at info; tests log text at warn; anything else is a development setup.
func DefaultsFor(environment string) Config {
	cfg := Config{
		ServiceName: DefaultServiceName,
		Version:     DefaultVersion,
		Environment: environment,
	}
	switch environment {
	case EnvironmentProduction, EnvironmentStaging:
		cfg.Level, cfg.Format = LogLevelInfo, LogFormatJSON
	case EnvironmentTest:
		cfg.Level, cfg.Format = LogLevelWarn, LogFormatText
	default:
		cfg.Environment = EnvironmentDev
		cfg.Level, cfg.Format = LogLevelDebug, LogFormatText
		cfg.AddSource = true
	}
	return cfg
}

func (c Config) withDefaults() Config {
	d := DefaultsFor(c.Environment)
	if c.Level == "" {
		c.Level = d.Level
	}
	if c.Format == "" {
		c.Format = d.Format
	}
	if c.ServiceName == "" {
		c.ServiceName = d.ServiceName
	}
	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Environment == "" {
		c.Environment = d.Environment
	}
	return c
}

// LogLevel maps the configured level name to a slog.Level. Unknown names
// fall back to info.
func (c Config) LogLevel() slog.Level {
	if lvl, ok := levelsByName[strings.ToLower(c.Level)]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// IsJSON reports whether records are written as JSON
func (c Config) IsJSON() bool {
	return strings.EqualFold(c.Format, LogFormatJSON)
}

// BaseAttributes are attached to every record
func (c Config) BaseAttributes() []slog.Attr {
	return []slog.Attr{
		slog.String(AttrKeyService, c.ServiceName),
		slog.String(AttrKeyVersion, c.Version),
		slog.String(AttrKeyEnvironment, c.Environment),
	}
}
