package interfaces

import (
	"context"

	"github.com/secmon-lab/doubleblind/pkg/domain/model/auth"
)

// Repository defines the interface for data persistence
type Repository interface {
	Prompt() PromptRepository
	Response() ResponseRepository
	Acknowledgment() AcknowledgmentRepository
	Suggestion() SuggestionRepository

	// Auth methods
	PutToken(ctx context.Context, token *auth.Token) error
	GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error)
	DeleteToken(ctx context.Context, tokenID auth.TokenID) error

	// Close releases the underlying client or connection pool
	Close() error
}
