package bootstrap

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/osse101/ItemVault_Go/internal/config"
	"github.com/osse101/ItemVault_Go/internal/logger"
)

// SetupLogger installs the slog default from cfg. When cfg.LogDir is set
// output is teed to a timestamped file in that directory, which the caller
// must close; otherwise the returned file is nil and logs go to stdout.
func SetupLogger(cfg *config.Config) (*os.File, error) {
	addSource := cfg.Environment == "dev" || cfg.Environment == "development"
	loggerConfig := logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		cfg.ServiceName,
		cfg.Version,
		cfg.Environment,
		addSource,
	)

	var (
		logFile *os.File
		w       io.Writer = os.Stdout
	)
	if cfg.LogDir != "" {
		f, mw, err := logger.OpenLogFile(cfg.LogDir, time.Now())
		if err != nil {
			return nil, err
		}
		logFile, w = f, mw
	}
	logger.InitLoggerWithWriter(loggerConfig, w)

	slog.Info(LogMsgLoggingInitialized, "level", loggerConfig.LogLevel(), "log_dir", cfg.LogDir)
	slog.Info(LogMsgStartingItemVault,
		"environment", cfg.Environment,
		"log_level", cfg.LogLevel,
		"log_format", cfg.LogFormat,
		"version", cfg.Version,
		"store_driver", cfg.StoreDriver)

	slog.Debug(LogMsgConfigurationLoaded,
		"db_host", cfg.DBHost,
		"db_port", cfg.DBPort,
		"db_name", cfg.DBName,
		"port", cfg.Port,
		"nats_enabled", cfg.NATSURL != "")

	return logFile, nil
}
