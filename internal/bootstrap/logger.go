package bootstrap

import (
	"io"
	"log/slog"
	"os"

	"github.com/osse101/farmclock/internal/config"
	"github.com/osse101/farmclock/internal/logger"
)

// SetupLogger installs the default slog logger for cfg and reports any
// configuration warnings through it
func SetupLogger(cfg *config.Config) *slog.Logger {
	return SetupLoggerWithWriter(cfg, os.Stdout)
}

// SetupLoggerWithWriter is SetupLogger writing to w
func SetupLoggerWithWriter(cfg *config.Config, w io.Writer) *slog.Logger {
	addSource := cfg.Environment == logger.EnvironmentDev

	l := logger.InitLoggerWithWriter(logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		ServiceName,
		cfg.Version,
		cfg.Environment,
		addSource,
	), w)

	l.Info(LogMsgStarting,
		"environment", cfg.Environment,
		"log_level", cfg.LogLevel,
		"log_format", cfg.LogFormat)
	l.Debug(LogMsgConfigurationLoaded,
		"port", cfg.Port,
		"chain_rpc", cfg.ChainRPCURL,
		"indexer", cfg.IndexerURL,
		"account", cfg.Account,
		"farm_contract", cfg.FarmContract)

	for _, w := range config.Warnings(cfg) {
		l.Warn(LogMsgConfigWarning, "warning", w)
	}
	return l
}
