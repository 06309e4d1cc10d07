package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
	"github.com/secmon-lab/doubleblind/pkg/utils/async"
	"github.com/secmon-lab/doubleblind/pkg/utils/logging"
)

type AcknowledgmentUseCase struct {
	repo     interfaces.Repository
	prompts  *PromptUseCase
	notifier interfaces.Notifier
	clock    func() time.Time
}

func NewAcknowledgmentUseCase(repo interfaces.Repository, prompts *PromptUseCase, notifier interfaces.Notifier, clock func() time.Time) *AcknowledgmentUseCase {
	return &AcknowledgmentUseCase{
		repo:     repo,
		prompts:  prompts,
		notifier: notifier,
		clock:    clock,
	}
}

// Acknowledge marks the partner's response responseID as read by userID.
// Both responses must be submitted. A repeated call returns the stored
// acknowledgment with UpsertUnchanged.
func (uc *AcknowledgmentUseCase) Acknowledge(ctx context.Context, responseID types.ResponseID, userID types.UserID) (*model.Acknowledgment, types.UpsertOutcome, error) {
	if err := requireUser(userID); err != nil {
		return nil, types.UpsertUnchanged, err
	}
	if err := responseID.Validate(); err != nil {
		return nil, types.UpsertUnchanged, goerr.Wrap(ErrValidation, "invalid response ID", goerr.V(ResponseIDKey, responseID))
	}

	target, err := uc.repo.Response().Get(ctx, responseID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, types.UpsertUnchanged, goerr.Wrap(ErrResponseNotFound, "response does not exist", goerr.V(ResponseIDKey, responseID))
		}
		return nil, types.UpsertUnchanged, storageError(err, "failed to get response", goerr.V(ResponseIDKey, responseID))
	}

	if target.UserID == userID {
		return nil, types.UpsertUnchanged, goerr.Wrap(ErrSelfAcknowledgment, "response belongs to the caller",
			goerr.V(ResponseIDKey, responseID), goerr.V(UserIDKey, userID))
	}
	if !target.IsSubmitted {
		return nil, types.UpsertUnchanged, goerr.Wrap(ErrResponseNotSubmitted, "response is still a draft",
			goerr.V(ResponseIDKey, responseID))
	}

	mine, err := uc.repo.Response().GetByPromptAndUser(ctx, target.PromptID, userID)
	if err != nil && !errors.Is(err, interfaces.ErrNotFound) {
		return nil, types.UpsertUnchanged, storageError(err, "failed to get own response",
			goerr.V(PromptIDKey, target.PromptID), goerr.V(UserIDKey, userID))
	}
	if mine == nil || !mine.IsSubmitted {
		return nil, types.UpsertUnchanged, goerr.Wrap(ErrActorNotSubmitted, "caller has not submitted for this prompt",
			goerr.V(PromptIDKey, target.PromptID), goerr.V(UserIDKey, userID))
	}

	ack, outcome, err := uc.repo.Acknowledgment().Upsert(ctx, &model.Acknowledgment{
		ID:             types.NewAcknowledgmentID(),
		ResponseID:     responseID,
		UserID:         userID,
		AcknowledgedAt: uc.clock(),
	})
	if err != nil {
		return nil, types.UpsertUnchanged, storageError(err, "failed to save acknowledgment",
			goerr.V(ResponseIDKey, responseID), goerr.V(UserIDKey, userID))
	}

	logging.From(ctx).Info("Response acknowledged",
		"prompt_id", target.PromptID,
		"response_id", responseID,
		"outcome", outcome.String())

	if outcome.Created() && !isNop(uc.notifier) {
		promptID := target.PromptID
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.notifyIfDone(ctx, promptID, userID)
		})
	}

	return ack, outcome, nil
}

func (uc *AcknowledgmentUseCase) notifyIfDone(ctx context.Context, promptID types.PromptID, userID types.UserID) error {
	view, err := uc.prompts.GetPromptView(ctx, promptID, userID)
	if err != nil {
		return goerr.Wrap(err, "failed to load prompt view for notification")
	}
	if view.Status != types.PromptStatusDone {
		return nil
	}

	prompt, err := uc.prompts.getPrompt(ctx, promptID)
	if err != nil {
		return err
	}
	return uc.notifier.NotifyCompleted(ctx, prompt)
}
