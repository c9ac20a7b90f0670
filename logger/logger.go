package logger

import (
	"io"

	"github.com/bool64/ctxd"
	"github.com/bool64/zapctxd"
)

// NewLogger initiates a new contextualized zap logger.
//
// Without an output, the logger writes nothing.
func NewLogger(cfg Config) *zapctxd.Logger {
	if cfg.Output == nil {
		cfg.Output = io.Discard
	}

	zCfg := zapctxd.Config{
		Level:   cfg.Level,
		DevMode: !cfg.JSON,
		FieldNames: ctxd.FieldNames{
			Timestamp: "timestamp",
			Message:   "message",
		},
		Output:    cfg.Output,
		StripTime: cfg.StripTime,
	}

	return zapctxd.New(zCfg)
}
