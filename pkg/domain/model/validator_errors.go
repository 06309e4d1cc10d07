package model

import "github.com/m-mizutani/goerr/v2"

// Validation errors. All of them wrap ErrValidation so callers can branch on
// the error kind without knowing which rule failed.
var (
	ErrValidation      = goerr.New("validation error")
	ErrEmptyContent    = goerr.Wrap(ErrValidation, "content is empty")
	ErrContentTooLong  = goerr.Wrap(ErrValidation, "content exceeds maximum length")
	ErrInvalidName     = goerr.Wrap(ErrValidation, "invalid name")
	ErrInvalidPrompt   = goerr.Wrap(ErrValidation, "invalid prompt")
	ErrContentTooShort = goerr.Wrap(ErrValidation, "content is too short")
)

// Context keys for error values
const (
	LengthKey    = "length"
	MaxLengthKey = "max_length"
	MinLengthKey = "min_length"
	OrderKey     = "order"
)
