package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/utils/logging"
)

// Handle logs the error with a message and reports it to Sentry when a client
// is configured. The error is returned unchanged so callers can keep
// propagating it.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logError(ctx, slog.LevelError, msg, err)
	capture(ctx, err, msg)
	return err
}

// ErrorBody is the JSON body of every failed API request
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HandleHTTP logs err and writes it as an ErrorBody. Client errors are logged
// as warnings with their message in the body; server errors are reported to
// Sentry and the body carries only the status text.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int, code string) {
	if err == nil {
		return
	}

	body := ErrorBody{Error: err.Error(), Code: code}
	if statusCode >= http.StatusInternalServerError {
		logError(ctx, slog.LevelError, "request failed", err, "status", statusCode, "code", code)
		capture(ctx, err, "request failed")
		body.Error = http.StatusText(statusCode)
	} else {
		logError(ctx, slog.LevelWarn, "request rejected", err, "status", statusCode, "code", code)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.From(ctx).Error("failed to encode error body", "error", err.Error())
	}
}

func logError(ctx context.Context, level slog.Level, msg string, err error, attrs ...any) {
	attrs = append(attrs, "error", err.Error())

	var ge *goerr.Error
	if errors.As(err, &ge) {
		attrs = append(attrs, "values", ge.Values(), "stack", ge.Stacks())
	}
	logging.From(ctx).Log(ctx, level, msg, attrs...)
}

func capture(ctx context.Context, err error, msg string) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return
	}

	hub.WithScope(func(scope *sentry.Scope) {
		details := sentry.Context{"message": msg}
		var ge *goerr.Error
		if errors.As(err, &ge) {
			for k, v := range ge.Values() {
				details[k] = v
			}
		}
		scope.SetContext("goerr", details)
		hub.CaptureException(err)
	})
}
