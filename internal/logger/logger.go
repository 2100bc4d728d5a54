package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

var log *slog.Logger

// Init sets up the process-wide JSON logger. Call once at startup.
func Init() {
	log = slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

// SetOutput redirects log output, used by tests.
func SetOutput(w io.Writer) {
	log = slog.New(slog.NewJSONHandler(w, nil))
}

func logger() *slog.Logger {
	if log == nil {
		Init()
	}
	return log
}

func Info(msg string, args ...any) {
	logger().Info(msg, args...)
}

func Infof(format string, v ...any) {
	logger().Info(fmt.Sprintf(format, v...))
}

func Error(msg string, args ...any) {
	logger().Error(msg, args...)
}

func Errorf(format string, v ...any) {
	logger().Error(fmt.Sprintf(format, v...))
}

func Debug(msg string, args ...any) {
	logger().Debug(msg, args...)
}

func Debugf(format string, v ...any) {
	logger().Debug(fmt.Sprintf(format, v...))
}

func Fatalf(format string, v ...any) {
	logger().Error(fmt.Sprintf(format, v...))
	os.Exit(1)
}
