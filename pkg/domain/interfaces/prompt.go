package interfaces

import (
	"context"

	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

// PromptRepository defines the interface for Prompt data access
type PromptRepository interface {
	// Put creates or replaces a prompt by ID
	Put(ctx context.Context, prompt *model.Prompt) error

	// Get retrieves a prompt by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id types.PromptID) (*model.Prompt, error)

	// List retrieves all prompts ordered by Order ascending
	List(ctx context.Context) ([]*model.Prompt, error)

	// DeleteAll removes every prompt. Used only by seed --replace.
	DeleteAll(ctx context.Context) error
}
