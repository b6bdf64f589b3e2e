package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"sensorapi/internal/config"
)

const AppName = "sensorapi"

// New returns the process logger writing to stdout. Development builds get a
// colored tint handler, release builds emit JSON.
func New(cfg config.Config, version string) *slog.Logger {
	return NewWithWriter(os.Stdout, cfg, version)
}

func NewWithWriter(w io.Writer, cfg config.Config, version string) *slog.Logger {
	if version == "dev" {
		h := tint.NewHandler(w, &tint.Options{
			Level:      cfg.LogLevel,
			AddSource:  true,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.AppEnv == "prod",
		})
		return slog.New(h).With("app", AppName)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	return slog.New(h).With(
		"app", AppName,
		"version", version,
		"env", cfg.AppEnv,
	)
}
