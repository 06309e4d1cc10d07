package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

type suggestionRepository struct {
	mu          sync.RWMutex
	suggestions []*model.Suggestion
}

func newSuggestionRepository() *suggestionRepository {
	return &suggestionRepository{}
}

func (r *suggestionRepository) Create(ctx context.Context, suggestion *model.Suggestion) (*model.Suggestion, error) {
	if err := suggestion.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid suggestion")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := *suggestion
	if created.ID == "" {
		created.ID = types.NewSuggestionID()
	}
	r.suggestions = append(r.suggestions, &created)

	result := created
	return &result, nil
}

func (r *suggestionRepository) List(ctx context.Context, limit int) ([]*model.Suggestion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Suggestion, 0, len(r.suggestions))
	for _, s := range r.suggestions {
		copied := *s
		result = append(result, &copied)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
