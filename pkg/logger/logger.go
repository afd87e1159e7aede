package logger

import (
	"log/slog"
	"os"
)

var std = slog.Default()

// Init configures the global logger. Development gets human-readable text
// at debug level, everything else structured JSON at info.
func Init(environment string) {
	var handler slog.Handler

	if environment == "development" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	std = slog.New(handler)
	slog.SetDefault(std)
}

func Debug(msg string, args ...any) {
	std.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	std.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	std.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	std.Error(msg, args...)
}

// Fatal logs at error level and exits the process.
func Fatal(msg string, args ...any) {
	std.Error(msg, args...)
	os.Exit(1)
}
