package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

// requireUser fails closed on a missing or malformed identity
func requireUser(userID types.UserID) error {
	if err := userID.Validate(); err != nil {
		return goerr.Wrap(ErrUnauthorized, "valid user identity is required", goerr.V(UserIDKey, userID))
	}
	return nil
}

func (uc *PromptUseCase) getPrompt(ctx context.Context, promptID types.PromptID) (*model.Prompt, error) {
	prompt, err := uc.repo.Prompt().Get(ctx, promptID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrPromptNotFound, "prompt does not exist", goerr.V(PromptIDKey, promptID))
		}
		return nil, storageError(err, "failed to get prompt", goerr.V(PromptIDKey, promptID))
	}
	return prompt, nil
}

// GetPromptView returns the prompt as seen by userID with the partner's
// content withheld until userID has submitted.
func (uc *PromptUseCase) GetPromptView(ctx context.Context, promptID types.PromptID, userID types.UserID) (*model.PromptView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := promptID.Validate(); err != nil {
		return nil, goerr.Wrap(ErrValidation, "invalid prompt ID", goerr.V(PromptIDKey, promptID))
	}

	prompt, err := uc.getPrompt(ctx, promptID)
	if err != nil {
		return nil, err
	}

	responses, err := uc.repo.Response().ListByPrompt(ctx, promptID)
	if err != nil {
		return nil, storageError(err, "failed to list responses", goerr.V(PromptIDKey, promptID))
	}

	acks, err := uc.repo.Acknowledgment().ListByResponses(ctx, responseIDs(responses))
	if err != nil {
		return nil, storageError(err, "failed to list acknowledgments", goerr.V(PromptIDKey, promptID))
	}

	return model.NewPromptView(prompt, responses, acks, userID), nil
}

// ListPromptViews returns every prompt as seen by userID, ordered by Order.
// Responses and acknowledgments are loaded in bulk.
func (uc *PromptUseCase) ListPromptViews(ctx context.Context, userID types.UserID) ([]*model.PromptView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	prompts, err := uc.repo.Prompt().List(ctx)
	if err != nil {
		return nil, storageError(err, "failed to list prompts")
	}
	if len(prompts) == 0 {
		return []*model.PromptView{}, nil
	}

	promptIDs := make([]types.PromptID, 0, len(prompts))
	for _, p := range prompts {
		promptIDs = append(promptIDs, p.ID)
	}

	responsesByPrompt, err := uc.repo.Response().ListByPrompts(ctx, promptIDs)
	if err != nil {
		return nil, storageError(err, "failed to list responses")
	}

	var allResponses []*model.Response
	promptOf := make(map[types.ResponseID]types.PromptID)
	for promptID, list := range responsesByPrompt {
		for _, r := range list {
			allResponses = append(allResponses, r)
			promptOf[r.ID] = promptID
		}
	}

	acks, err := uc.repo.Acknowledgment().ListByResponses(ctx, responseIDs(allResponses))
	if err != nil {
		return nil, storageError(err, "failed to list acknowledgments")
	}

	acksByPrompt := make(map[types.PromptID][]*model.Acknowledgment)
	for _, a := range acks {
		if promptID, ok := promptOf[a.ResponseID]; ok {
			acksByPrompt[promptID] = append(acksByPrompt[promptID], a)
		}
	}

	views := make([]*model.PromptView, 0, len(prompts))
	for _, p := range prompts {
		views = append(views, model.NewPromptView(p, responsesByPrompt[p.ID], acksByPrompt[p.ID], userID))
	}
	return views, nil
}

func responseIDs(responses []*model.Response) []types.ResponseID {
	ids := make([]types.ResponseID, 0, len(responses))
	for _, r := range responses {
		ids = append(ids, r.ID)
	}
	return ids
}
