package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/secmon-lab/doubleblind/pkg/utils/logging"
)

// Close closes c and logs a failure under the given label, e.g. "repository"
// or "response body". Nil closers are ignored.
func Close(ctx context.Context, c io.Closer, label string) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logging.From(ctx).Error("failed to close "+label, slog.Any("error", err))
	}
}

// Drain discards what is left of r and closes it so the HTTP transport can
// reuse the connection.
func Drain(ctx context.Context, r io.ReadCloser) {
	if r == nil {
		return
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		logging.From(ctx).Debug("failed to drain body", slog.Any("error", err))
	}
	Close(ctx, r, "response body")
}
