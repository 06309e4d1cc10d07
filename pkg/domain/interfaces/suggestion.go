package interfaces

import (
	"context"

	"github.com/secmon-lab/doubleblind/pkg/domain/model"
)

// SuggestionRepository defines the interface for topic suggestions
type SuggestionRepository interface {
	Create(ctx context.Context, suggestion *model.Suggestion) (*model.Suggestion, error)

	// List returns suggestions newest first, at most limit entries
	List(ctx context.Context, limit int) ([]*model.Suggestion, error)
}
