package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
	"github.com/secmon-lab/doubleblind/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

type PromptUseCase struct {
	repo  interfaces.Repository
	clock func() time.Time
}

func NewPromptUseCase(repo interfaces.Repository, clock func() time.Time) *PromptUseCase {
	return &PromptUseCase{
		repo:  repo,
		clock: clock,
	}
}

// ListPrompts returns the prompt catalog without any response data
func (uc *PromptUseCase) ListPrompts(ctx context.Context) ([]*model.Prompt, error) {
	prompts, err := uc.repo.Prompt().List(ctx)
	if err != nil {
		return nil, storageError(err, "failed to list prompts")
	}
	return prompts, nil
}

// SeedResult reports what Seed wrote
type SeedResult struct {
	Created int
	Updated int
	Deleted bool
}

// Seed writes the given prompts keyed by Order. A prompt already stored with
// the same Order keeps its ID and CreatedAt, so responses stay attached.
// With replace, existing prompts are deleted first.
func (uc *PromptUseCase) Seed(ctx context.Context, seeds []*model.Prompt, replace bool) (*SeedResult, error) {
	seen := make(map[int]struct{}, len(seeds))
	for _, s := range seeds {
		if _, dup := seen[s.Order]; dup {
			return nil, goerr.Wrap(model.ErrInvalidPrompt, "duplicated prompt order", goerr.V(model.OrderKey, s.Order))
		}
		seen[s.Order] = struct{}{}
	}

	result := &SeedResult{}
	if replace {
		if err := uc.repo.Prompt().DeleteAll(ctx); err != nil {
			return nil, storageError(err, "failed to delete prompts")
		}
		result.Deleted = true
	}

	existing, err := uc.repo.Prompt().List(ctx)
	if err != nil {
		return nil, storageError(err, "failed to list prompts")
	}
	byOrder := make(map[int]*model.Prompt, len(existing))
	for _, p := range existing {
		byOrder[p.Order] = p
	}

	now := uc.clock()
	toWrite := make([]*model.Prompt, 0, len(seeds))
	for _, s := range seeds {
		p := &model.Prompt{
			ID:        types.NewPromptID(),
			Title:     s.Title,
			Text:      s.Text,
			Order:     s.Order,
			CreatedAt: now,
		}
		if cur, ok := byOrder[s.Order]; ok {
			p.ID = cur.ID
			p.CreatedAt = cur.CreatedAt
			result.Updated++
		} else {
			result.Created++
		}

		if err := p.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid seed prompt", goerr.V(model.OrderKey, s.Order))
		}
		toWrite = append(toWrite, p)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(4)
	for _, p := range toWrite {
		eg.Go(func() error {
			if err := uc.repo.Prompt().Put(egCtx, p); err != nil {
				return storageError(err, "failed to put prompt", goerr.V(PromptIDKey, p.ID))
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	logging.From(ctx).Info("Prompts seeded",
		"created", result.Created,
		"updated", result.Updated,
		"replaced", result.Deleted)

	return result, nil
}
