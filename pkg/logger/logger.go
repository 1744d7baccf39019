package logger

import (
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/user/regnav/pkg/config"
)

// NewLogger builds a named logger. The level comes from the config file
// first, then REGNAV_LOG_LEVEL; debug forces DEBUG.
func NewLogger(cfg *config.Config, name string, debug bool) hclog.Logger {
	var logLevel hclog.Level

	if cfg != nil && cfg.LogLevel != "" {
		logLevel = getLogLevel(strings.ToUpper(cfg.LogLevel))
	} else {
		logLevel = getLogLevel(strings.ToUpper(os.Getenv("REGNAV_LOG_LEVEL")))
	}
	if debug && logLevel > hclog.Debug {
		logLevel = hclog.Debug
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:        name,
		DisableTime: true,
		Output:      os.Stderr,
		Level:       logLevel,
	})
}

func getLogLevel(levelStr string) hclog.Level {
	switch levelStr {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO":
		return hclog.Info
	case "WARN":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	default:
		return hclog.Info
	}
}
