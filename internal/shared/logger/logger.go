package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"

	sharedConfig "github.com/coachly/coachly/internal/shared/config"
)

const redacted = "[REDACTED]"

// sensitiveKeys are attribute keys whose values never reach the log output.
// Matching is case-insensitive on the whole key.
var sensitiveKeys = map[string]struct{}{
	"authorization":           {},
	"cookie":                  {},
	"password":                {},
	"secret":                  {},
	"token":                   {},
	"access_token":            {},
	"signature":               {},
	"paypal-transmission-sig": {},
	"webhook_secret":          {},
	"jwt_secret":              {},
}

var (
	mu          sync.RWMutex
	root        *slog.Logger
	atomicLevel = new(slog.LevelVar)
)

// Init configures the global logger. mode is the server mode; "debug" adds
// source locations on every level, otherwise only warnings and errors carry one.
func Init(cfg *sharedConfig.LoggerConfig, mode string) error {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return err
	}
	atomicLevel.Set(level)

	writer, err := openOutput(cfg.OutputPath)
	if err != nil {
		return err
	}

	sourceFrom := slog.LevelWarn
	if mode == "debug" {
		sourceFrom = slog.LevelDebug
	}

	l := slog.New(newHandler(writer, cfg.Format, atomicLevel, sourceFrom))

	mu.Lock()
	root = l
	mu.Unlock()
	slog.SetDefault(l)

	return nil
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

func openOutput(path string) (io.Writer, error) {
	switch strings.ToLower(path) {
	case "stdout", "":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log output %s: %w", path, err)
		}
		return file, nil
	}
}

// newHandler builds a JSON handler for "json" and a tint console handler for
// anything else. Color is only used on a terminal.
func newHandler(w io.Writer, format string, level slog.Leveler, sourceFrom slog.Level) slog.Handler {
	var base slog.Handler
	if strings.EqualFold(format, "json") {
		base = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: redactAttr,
		})
	} else {
		base = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.DateTime,
			NoColor:    !isTerminal(w),
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a = redactAttr(groups, a)
				if err, ok := a.Value.Any().(error); ok && a.Key == "error" {
					return tint.Err(err)
				}
				return a
			},
		})
	}
	return withSource(base, sourceFrom)
}

func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, redacted)
	}
	return a
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// SetLevel changes the level of the logger built by Init at runtime.
func SetLevel(level slog.Level) {
	atomicLevel.Set(level)
}

// Get returns the global logger, building a console logger on first use when
// Init was never called.
func Get() *slog.Logger {
	mu.RLock()
	l := root
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if root == nil {
		root = slog.New(newHandler(os.Stdout, "console", atomicLevel, slog.LevelWarn))
	}
	return root
}

// Sync is kept for symmetry with deferred shutdown; slog handlers write through.
func Sync() error {
	return nil
}
