package interfaces

import (
	"context"

	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

// ResponseRepository defines the interface for Response data access.
// (PromptID, UserID) is unique.
type ResponseRepository interface {
	// Get retrieves a response by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id types.ResponseID) (*model.Response, error)

	// GetByPromptAndUser retrieves the single response of userID for promptID.
	// Returns ErrNotFound if the user has not written anything yet.
	GetByPromptAndUser(ctx context.Context, promptID types.PromptID, userID types.UserID) (*model.Response, error)

	// ListByPrompt retrieves all responses for a prompt ordered by CreatedAt
	ListByPrompt(ctx context.Context, promptID types.PromptID) ([]*model.Response, error)

	// ListByPrompts retrieves responses for multiple prompts (for batch
	// operations). Returns a map of prompt ID to responses ordered by CreatedAt.
	ListByPrompts(ctx context.Context, promptIDs []types.PromptID) (map[types.PromptID][]*model.Response, error)

	// Upsert writes response keyed by (PromptID, UserID). An existing row
	// keeps its ID and CreatedAt; Content, IsSubmitted, SubmittedAt and
	// UpdatedAt are replaced. If the stored row is already submitted nothing
	// is written and ErrResponseLocked is returned.
	Upsert(ctx context.Context, response *model.Response) (*model.Response, types.UpsertOutcome, error)
}
