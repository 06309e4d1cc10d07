package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
	"github.com/secmon-lab/doubleblind/pkg/usecase"
	"github.com/secmon-lab/doubleblind/pkg/utils/async"
)

func TestAcknowledgmentUseCase_Acknowledge(t *testing.T) {
	ctx := context.Background()

	t.Run("acknowledges the partner's submitted response", func(t *testing.T) {
		uc, _, prompts := setupUseCases(t)
		submit(t, uc, prompts[0].ID, alice, "alice")
		bobResp := submit(t, uc, prompts[0].ID, bob, "bob")

		ack, outcome, err := uc.Acknowledgment.Acknowledge(ctx, bobResp.ID, alice)
		gt.NoError(t, err).Required()
		gt.Value(t, outcome).Equal(types.UpsertInserted)
		gt.Value(t, ack.ResponseID).Equal(bobResp.ID)
		gt.Value(t, ack.UserID).Equal(alice)

		view, err := uc.Prompt.GetPromptView(ctx, prompts[0].ID, alice)
		gt.NoError(t, err).Required()
		gt.Bool(t, view.PartnerResponse.HasMyAcknowledgment).True()
		gt.Bool(t, view.PartnerResponse.HasPartnerAcknowledgment).False()
		gt.Value(t, view.Status).Equal(types.PromptStatusReadyForReview)

		bobView, err := uc.Prompt.GetPromptView(ctx, prompts[0].ID, bob)
		gt.NoError(t, err).Required()
		gt.Bool(t, bobView.PartnerResponse.HasMyAcknowledgment).False()
		gt.Bool(t, bobView.PartnerResponse.HasPartnerAcknowledgment).True()
	})

	t.Run("repeat keeps the first timestamp", func(t *testing.T) {
		uc, _, prompts := setupUseCases(t)
		submit(t, uc, prompts[0].ID, alice, "alice")
		bobResp := submit(t, uc, prompts[0].ID, bob, "bob")

		first, _, err := uc.Acknowledgment.Acknowledge(ctx, bobResp.ID, alice)
		gt.NoError(t, err).Required()

		second, outcome, err := uc.Acknowledgment.Acknowledge(ctx, bobResp.ID, alice)
		gt.NoError(t, err).Required()
		gt.Value(t, outcome).Equal(types.UpsertUnchanged)
		gt.Value(t, second.ID).Equal(first.ID)
		gt.Value(t, second.AcknowledgedAt).Equal(first.AcknowledgedAt)
	})

	t.Run("own response", func(t *testing.T) {
		uc, _, prompts := setupUseCases(t)
		mine := submit(t, uc, prompts[0].ID, alice, "alice")
		submit(t, uc, prompts[0].ID, bob, "bob")

		_, _, err := uc.Acknowledgment.Acknowledge(ctx, mine.ID, alice)
		gt.Error(t, err).Is(usecase.ErrSelfAcknowledgment)
	})

	t.Run("partner response is a draft", func(t *testing.T) {
		uc, _, prompts := setupUseCases(t)
		submit(t, uc, prompts[0].ID, alice, "alice")
		draft, err := uc.Response.SaveDraft(ctx, prompts[0].ID, bob, "bob draft")
		gt.NoError(t, err).Required()

		_, _, err = uc.Acknowledgment.Acknowledge(ctx, draft.ID, alice)
		gt.Error(t, err).Is(usecase.ErrResponseNotSubmitted)
	})

	t.Run("caller has not submitted", func(t *testing.T) {
		uc, _, prompts := setupUseCases(t)
		bobResp := submit(t, uc, prompts[0].ID, bob, "bob")

		_, _, err := uc.Acknowledgment.Acknowledge(ctx, bobResp.ID, alice)
		gt.Error(t, err).Is(usecase.ErrActorNotSubmitted)

		_, err = uc.Response.SaveDraft(ctx, prompts[0].ID, alice, "alice draft")
		gt.NoError(t, err).Required()
		_, _, err = uc.Acknowledgment.Acknowledge(ctx, bobResp.ID, alice)
		gt.Error(t, err).Is(usecase.ErrActorNotSubmitted)
	})

	t.Run("unknown response", func(t *testing.T) {
		uc, _, _ := setupUseCases(t)

		_, _, err := uc.Acknowledgment.Acknowledge(ctx, types.NewResponseID(), alice)
		gt.Error(t, err).Is(usecase.ErrResponseNotFound)
		gt.Error(t, err).Is(usecase.ErrNotFound)
	})

	t.Run("missing identity", func(t *testing.T) {
		uc, _, prompts := setupUseCases(t)
		bobResp := submit(t, uc, prompts[0].ID, bob, "bob")

		_, _, err := uc.Acknowledgment.Acknowledge(ctx, bobResp.ID, "")
		gt.Error(t, err).Is(usecase.ErrUnauthorized)
	})

	t.Run("completion is notified once", func(t *testing.T) {
		notifier := &recordingNotifier{}
		uc, _, prompts := setupUseCases(t, usecase.WithNotifier(notifier))
		aliceResp := submit(t, uc, prompts[0].ID, alice, "alice")
		bobResp := submit(t, uc, prompts[0].ID, bob, "bob")

		_, _, err := uc.Acknowledgment.Acknowledge(ctx, bobResp.ID, alice)
		gt.NoError(t, err).Required()
		async.Wait()
		gt.Value(t, notifier.Count("completed")).Equal(0)

		_, _, err = uc.Acknowledgment.Acknowledge(ctx, aliceResp.ID, bob)
		gt.NoError(t, err).Required()
		_, _, err = uc.Acknowledgment.Acknowledge(ctx, aliceResp.ID, bob)
		gt.NoError(t, err).Required()
		async.Wait()

		gt.Value(t, notifier.Count("completed")).Equal(1)
		gt.Value(t, notifier.Count("submitted")).Equal(2)
	})
}
