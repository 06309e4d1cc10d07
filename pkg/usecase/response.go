package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/model/auth"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
	"github.com/secmon-lab/doubleblind/pkg/utils/async"
	"github.com/secmon-lab/doubleblind/pkg/utils/logging"
)

type ResponseUseCase struct {
	repo     interfaces.Repository
	prompts  *PromptUseCase
	notifier interfaces.Notifier
	clock    func() time.Time
}

func NewResponseUseCase(repo interfaces.Repository, prompts *PromptUseCase, notifier interfaces.Notifier, clock func() time.Time) *ResponseUseCase {
	return &ResponseUseCase{
		repo:     repo,
		prompts:  prompts,
		notifier: notifier,
		clock:    clock,
	}
}

// SaveDraft stores content for (promptID, userID) without submitting it.
// Fails with ErrAlreadySubmitted once the response is submitted.
func (uc *ResponseUseCase) SaveDraft(ctx context.Context, promptID types.PromptID, userID types.UserID, content string) (*model.Response, error) {
	return uc.write(ctx, promptID, userID, content, false)
}

// SubmitResponse stores content and marks it submitted in a single write.
// Submission is one-way: a second call fails with ErrAlreadySubmitted and
// leaves SubmittedAt untouched.
func (uc *ResponseUseCase) SubmitResponse(ctx context.Context, promptID types.PromptID, userID types.UserID, content string) (*model.Response, error) {
	return uc.write(ctx, promptID, userID, content, true)
}

func (uc *ResponseUseCase) write(ctx context.Context, promptID types.PromptID, userID types.UserID, content string, submit bool) (*model.Response, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := promptID.Validate(); err != nil {
		return nil, goerr.Wrap(ErrValidation, "invalid prompt ID", goerr.V(PromptIDKey, promptID))
	}
	if err := model.ValidateContent(content); err != nil {
		return nil, goerr.Wrap(err, "invalid response content", goerr.V(PromptIDKey, promptID))
	}

	prompt, err := uc.prompts.getPrompt(ctx, promptID)
	if err != nil {
		return nil, err
	}

	now := uc.clock()
	resp := &model.Response{
		ID:          types.NewResponseID(),
		PromptID:    promptID,
		UserID:      userID,
		Content:     content,
		IsSubmitted: submit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if submit {
		resp.SubmittedAt = &now
	}

	saved, outcome, err := uc.repo.Response().Upsert(ctx, resp)
	if err != nil {
		if errors.Is(err, interfaces.ErrResponseLocked) {
			return nil, goerr.Wrap(ErrAlreadySubmitted, "response cannot be changed after submission",
				goerr.V(PromptIDKey, promptID),
				goerr.V(UserIDKey, userID))
		}
		return nil, storageError(err, "failed to save response",
			goerr.V(PromptIDKey, promptID),
			goerr.V(UserIDKey, userID))
	}

	logging.From(ctx).Info("Response saved",
		"prompt_id", promptID,
		"response_id", saved.ID,
		"submitted", submit,
		"outcome", outcome.String())

	if submit && !isNop(uc.notifier) {
		name := userID.String()
		if token := auth.TokenFromContext(ctx); token != nil && token.Name != "" {
			name = token.Name
		}
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.notifier.NotifySubmitted(ctx, prompt, name)
		})
	}

	return saved, nil
}
