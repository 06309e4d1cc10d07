package safe_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/doubleblind/pkg/utils/logging"
	"github.com/secmon-lab/doubleblind/pkg/utils/safe"
)

type closer struct {
	closed bool
	err    error
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

type body struct {
	io.Reader
	closer
}

func loggerContext(buf *bytes.Buffer) context.Context {
	return logging.With(context.Background(), logging.New(buf, slog.LevelDebug, logging.FormatJSON))
}

func TestClose(t *testing.T) {
	t.Run("logs the label on failure", func(t *testing.T) {
		var buf bytes.Buffer
		c := &closer{err: errors.New("boom")}
		safe.Close(loggerContext(&buf), c, "repository")

		gt.Bool(t, c.closed).True()
		gt.String(t, buf.String()).Contains("failed to close repository")
	})

	t.Run("silent on success", func(t *testing.T) {
		var buf bytes.Buffer
		safe.Close(loggerContext(&buf), &closer{}, "repository")
		gt.Value(t, buf.Len()).Equal(0)
	})

	t.Run("nil closer", func(t *testing.T) {
		safe.Close(context.Background(), nil, "nothing")
	})
}

func TestDrain(t *testing.T) {
	b := &body{Reader: strings.NewReader("leftover")}
	safe.Drain(context.Background(), b)

	gt.Bool(t, b.closed).True()
	rest, err := io.ReadAll(b.Reader)
	gt.NoError(t, err)
	gt.Value(t, len(rest)).Equal(0)
}
