package usecase_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

func TestWorkflow(t *testing.T) {
	uc, _, prompts := setupUseCases(t)
	ctx := t.Context()
	promptID := prompts[0].ID

	statusOf := func(userID types.UserID) types.PromptStatus {
		t.Helper()
		view, err := uc.Prompt.GetPromptView(ctx, promptID, userID)
		gt.NoError(t, err).Required()
		return view.Status
	}

	gt.Value(t, statusOf(alice)).Equal(types.PromptStatusIncomplete)

	_, err := uc.Response.SaveDraft(ctx, promptID, alice, "draft")
	gt.NoError(t, err).Required()
	gt.Value(t, statusOf(alice)).Equal(types.PromptStatusIncomplete)

	aliceResp := submit(t, uc, promptID, alice, "alice's answer")
	gt.Value(t, statusOf(alice)).Equal(types.PromptStatusPendingPartner)

	// bob can see that alice answered, but not what she wrote
	bobView, err := uc.Prompt.GetPromptView(ctx, promptID, bob)
	gt.NoError(t, err).Required()
	gt.Value(t, bobView.Status).Equal(types.PromptStatusLocked)
	gt.Bool(t, bobView.PartnerResponse.IsSubmitted).True()
	gt.Value(t, bobView.PartnerResponse.Content).Nil()

	bobResp := submit(t, uc, promptID, bob, "bob's answer")
	gt.Value(t, statusOf(alice)).Equal(types.PromptStatusReadyForReview)
	gt.Value(t, statusOf(bob)).Equal(types.PromptStatusReadyForReview)

	_, _, err = uc.Acknowledgment.Acknowledge(ctx, bobResp.ID, alice)
	gt.NoError(t, err).Required()
	gt.Value(t, statusOf(alice)).Equal(types.PromptStatusReadyForReview)
	gt.Value(t, statusOf(bob)).Equal(types.PromptStatusReadyForReview)

	_, _, err = uc.Acknowledgment.Acknowledge(ctx, aliceResp.ID, bob)
	gt.NoError(t, err).Required()
	gt.Value(t, statusOf(alice)).Equal(types.PromptStatusDone)
	gt.Value(t, statusOf(bob)).Equal(types.PromptStatusDone)

	// other prompts are untouched
	views, err := uc.Prompt.ListPromptViews(ctx, alice)
	gt.NoError(t, err).Required()
	gt.Value(t, views[0].Status).Equal(types.PromptStatusDone)
	gt.Value(t, views[1].Status).Equal(types.PromptStatusIncomplete)
	gt.Value(t, views[2].Status).Equal(types.PromptStatusIncomplete)
}
