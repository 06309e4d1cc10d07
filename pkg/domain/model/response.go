package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

// MaxContentLength is the upper bound of a response body in characters
const MaxContentLength = 50000

// Response is one participant's answer to one prompt. (PromptID, UserID) is
// unique. Once IsSubmitted is true the content and SubmittedAt never change.
type Response struct {
	ID          types.ResponseID
	PromptID    types.PromptID
	UserID      types.UserID
	Content     string
	IsSubmitted bool
	SubmittedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Copy returns a deep copy of the response
func (r *Response) Copy() *Response {
	copied := *r
	if r.SubmittedAt != nil {
		at := *r.SubmittedAt
		copied.SubmittedAt = &at
	}
	return &copied
}

// State reduces the response to what the status engine needs. A nil response
// yields nil, which the engine treats as "not submitted".
func (r *Response) State() *ResponseState {
	if r == nil {
		return nil
	}
	return &ResponseState{IsSubmitted: r.IsSubmitted}
}

// ValidateContent checks a response body before anything is written.
// Rich markup is accepted as-is; only emptiness and size are checked.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return goerr.Wrap(ErrEmptyContent, "response cannot be empty or contain only whitespace")
	}
	if n := utf8.RuneCountInString(content); n > MaxContentLength {
		return goerr.Wrap(ErrContentTooLong, "response exceeds maximum length",
			goerr.V(LengthKey, n),
			goerr.V(MaxLengthKey, MaxContentLength))
	}
	return nil
}
