package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

// suggestionListLimit caps the public listing
const suggestionListLimit = 100

type SuggestionUseCase struct {
	repo  interfaces.Repository
	clock func() time.Time
}

func NewSuggestionUseCase(repo interfaces.Repository, clock func() time.Time) *SuggestionUseCase {
	return &SuggestionUseCase{
		repo:  repo,
		clock: clock,
	}
}

// Submit stores a topic suggestion. No identity is required.
func (uc *SuggestionUseCase) Submit(ctx context.Context, name, content string) (*model.Suggestion, error) {
	s := &model.Suggestion{
		ID:        types.NewSuggestionID(),
		Name:      strings.TrimSpace(name),
		Content:   strings.TrimSpace(content),
		CreatedAt: uc.clock(),
	}
	if err := s.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid suggestion")
	}

	created, err := uc.repo.Suggestion().Create(ctx, s)
	if err != nil {
		return nil, storageError(err, "failed to create suggestion")
	}
	return created, nil
}

// List returns the latest suggestions, newest first
func (uc *SuggestionUseCase) List(ctx context.Context) ([]*model.Suggestion, error) {
	list, err := uc.repo.Suggestion().List(ctx, suggestionListLimit)
	if err != nil {
		return nil, storageError(err, "failed to list suggestions")
	}
	return list, nil
}
