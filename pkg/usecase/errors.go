package usecase

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
)

// Sentinel errors for use case layer
var (
	// Identity errors
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbiddenUser = errors.New("user is not allowed")

	// Not found errors
	ErrNotFound         = errors.New("not found")
	ErrPromptNotFound   = goerr.Wrap(ErrNotFound, "prompt not found")
	ErrResponseNotFound = goerr.Wrap(ErrNotFound, "response not found")

	// Workflow errors
	ErrAlreadySubmitted     = errors.New("response is already submitted")
	ErrSelfAcknowledgment   = errors.New("cannot acknowledge own response")
	ErrResponseNotSubmitted = errors.New("response is not submitted yet")
	ErrActorNotSubmitted    = errors.New("submit your own response before acknowledging")

	// ErrValidation is shared with the model so field checks done there match
	ErrValidation = model.ErrValidation

	// ErrStorageUnavailable marks a backend failure. It is never retried here.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Context keys for error values
const (
	PromptIDKey   = "prompt_id"
	ResponseIDKey = "response_id"
	UserIDKey     = "user_id"
)

// storageError tags err as a backend failure while keeping the original chain
func storageError(err error, msg string, options ...goerr.Option) error {
	return goerr.Wrap(errors.Join(ErrStorageUnavailable, err), msg, options...)
}
