package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

const (
	MaxSuggestionNameLength    = 100
	MinSuggestionContentLength = 10
	MaxSuggestionContentLength = 2000
)

// Suggestion is a proposed topic for a future prompt, submitted from the
// public topics page.
type Suggestion struct {
	ID        types.SuggestionID
	Name      string
	Content   string
	CreatedAt time.Time
}

// Validate checks name and content bounds
func (s *Suggestion) Validate() error {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return goerr.Wrap(ErrInvalidName, "name is required")
	}
	if n := utf8.RuneCountInString(s.Name); n > MaxSuggestionNameLength {
		return goerr.Wrap(ErrInvalidName, "name is too long",
			goerr.V(LengthKey, n), goerr.V(MaxLengthKey, MaxSuggestionNameLength))
	}

	n := utf8.RuneCountInString(s.Content)
	if n < MinSuggestionContentLength {
		return goerr.Wrap(ErrContentTooShort, "suggestion must be at least 10 characters",
			goerr.V(LengthKey, n), goerr.V(MinLengthKey, MinSuggestionContentLength))
	}
	if n > MaxSuggestionContentLength {
		return goerr.Wrap(ErrContentTooLong, "suggestion is too long",
			goerr.V(LengthKey, n), goerr.V(MaxLengthKey, MaxSuggestionContentLength))
	}
	return nil
}
