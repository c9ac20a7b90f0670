package logger

import (
	"io"

	"go.uber.org/zap/zapcore"
)

// Level is a log level.
type Level = zapcore.Level

const (
	// DebugLevel logs every fetch, every discovered link and every level of a crawl.
	DebugLevel = zapcore.DebugLevel
	// InfoLevel logs the start and the end of a crawl and of every level.
	InfoLevel = zapcore.InfoLevel
	// ErrorLevel logs failed fetches and recovered panics only.
	ErrorLevel = zapcore.ErrorLevel
)

// Config is the configuration for the logger.
type Config struct {
	Output io.Writer
	Level  Level
	// JSON switches from the human-readable console encoder to json lines.
	JSON bool
	// StripTime disables time variance in logger.
	StripTime bool
}
