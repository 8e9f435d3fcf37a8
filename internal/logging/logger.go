package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

var opts = &slog.HandlerOptions{Level: slog.LevelInfo}

// Setup installs the default JSON logger on stdout. When file is set, records
// are also written to a size-rotated log file. The returned closer releases
// the file and is a no-op otherwise.
func Setup(file string) (*MultiHandler, io.Closer) {
	handlers := []slog.Handler{slog.NewJSONHandler(os.Stdout, opts)}

	var closer io.Closer = nopCloser{}
	if file != "" {
		rotator := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		handlers = append(handlers, slog.NewJSONHandler(rotator, opts))
		closer = rotator
	}

	root := NewMultiHandler(handlers...)
	slog.SetDefault(slog.New(root))
	return root, closer
}

// Attach installs a new default logger that also fans out to extra.
func Attach(root *MultiHandler, extra ...slog.Handler) {
	slog.SetDefault(slog.New(root.With(extra...)))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
