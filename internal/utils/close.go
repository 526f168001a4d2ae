package utils

import (
	"io"
	"log/slog"
)

// CloseWithLog closes c and logs a warning if that fails.
func CloseWithLog(c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		slog.Warn("failed to close resource", "error", err.Error())
	}
}
