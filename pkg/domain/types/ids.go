package types

import (
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// maxIDLength bounds identifiers so they stay usable as document IDs and keys.
const maxIDLength = 128

var ErrInvalidID = goerr.New("invalid identifier")

func validateID(kind, id string) error {
	if id == "" {
		return goerr.Wrap(ErrInvalidID, kind+" is required")
	}
	if len(id) > maxIDLength {
		return goerr.Wrap(ErrInvalidID, kind+" is too long", goerr.V("length", len(id)))
	}
	// Firestore document IDs are built from these values
	if strings.ContainsAny(id, "/") || strings.TrimSpace(id) != id {
		return goerr.Wrap(ErrInvalidID, kind+" contains invalid characters", goerr.V("id", id))
	}
	return nil
}

// PromptID identifies a seeded prompt
type PromptID string

func NewPromptID() PromptID { return PromptID(uuid.New().String()) }

func (id PromptID) String() string { return string(id) }

func (id PromptID) Validate() error { return validateID("prompt ID", string(id)) }

// ResponseID identifies one participant's answer to one prompt
type ResponseID string

func NewResponseID() ResponseID { return ResponseID(uuid.New().String()) }

func (id ResponseID) String() string { return string(id) }

func (id ResponseID) Validate() error { return validateID("response ID", string(id)) }

// AcknowledgmentID identifies a "read it" mark left on a partner's response
type AcknowledgmentID string

func NewAcknowledgmentID() AcknowledgmentID { return AcknowledgmentID(uuid.New().String()) }

func (id AcknowledgmentID) String() string { return string(id) }

// SuggestionID identifies a topic suggestion
type SuggestionID string

func NewSuggestionID() SuggestionID { return SuggestionID(uuid.New().String()) }

func (id SuggestionID) String() string { return string(id) }

// UserID is the subject issued by the identity provider
type UserID string

func (id UserID) String() string { return string(id) }

func (id UserID) Validate() error { return validateID("user ID", string(id)) }
