// Package logging configures the global zerolog logger and the GORM logger
// that writes through it.
package logging

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"time"

	"github.com/rpupo63/quickdialer/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
	gormlogger "gorm.io/gorm/logger"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// slow queries are reported at warn level
const slowQueryThreshold = time.Second

// New builds a logger from the LOG_* settings. When cfg.LogFile is set, output
// also goes to a rotated file; the returned closer releases it.
func New(cfg config.Config, stdout io.Writer) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.Logger{}, nil, fmt.Errorf("invalid LOG_LEVEL %q", cfg.LogLevel)
	}

	var out io.Writer
	switch strings.ToLower(cfg.LogFormat) {
	case FormatConsole, "":
		out = zerolog.ConsoleWriter{Out: stdout, TimeFormat: time.RFC3339}
	case FormatJSON:
		out = stdout
	default:
		return zerolog.Logger{}, nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}

	var closer io.Closer = nopCloser{}
	if cfg.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(out, file)
		closer = file
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Str("service", "quickdialer").Logger()
	return logger, closer, nil
}

// Setup installs the logger from New as the global zerolog logger.
func Setup(cfg config.Config) (io.Closer, error) {
	logger, closer, err := New(cfg, os.Stdout)
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(logger.GetLevel())
	log.Logger = logger
	return closer, nil
}

// Gorm returns a GORM logger that writes through logger. Record-not-found is
// expected in normal flows and is not reported.
func Gorm(logger zerolog.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	if logger.GetLevel() <= zerolog.DebugLevel {
		level = gormlogger.Info
	}

	return gormlogger.New(
		stdlog.New(logger.With().Str("component", "gorm").Logger(), "", 0),
		gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
