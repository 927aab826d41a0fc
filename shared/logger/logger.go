package logger

import (
	"io"
	"os"
	"salon/config"
	"salon/shared/constant"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

const serviceName = "salon"

// InitLogger installs a human readable console logger on stdout at trace level.
// Configure narrows it once the configuration is loaded.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
}

// Configure applies the configured level and switches to JSON lines in production.
func Configure(cfg *config.Config) {
	SetLogLevel(cfg)

	if cfg.Server.Env == constant.ServerEnvProduction {
		UseWriter(os.Stdout)
	}
}

// UseWriter replaces the console writer with structured JSON output.
func UseWriter(w io.Writer) {
	log.Logger = zerolog.New(w).With().Timestamp().Str("service", serviceName).Logger()
}

// ErrorWithStack logs err with the stack of the caller attached.
func ErrorWithStack(err error) {
	if err == nil {
		return
	}

	log.Error().Stack().Err(errors.WithStack(err)).Msg(err.Error())
}

// SetLogLevel falls back to trace when LOG_LEVEL does not name a zerolog level.
func SetLogLevel(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		level = zerolog.TraceLevel
	}

	zerolog.SetGlobalLevel(level)
	log.Debug().Str("level", level.String()).Msg("log level set")
}
