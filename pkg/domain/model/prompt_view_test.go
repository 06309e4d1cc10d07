package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

const (
	alice types.UserID = "alice"
	bob   types.UserID = "bob"
)

func newPrompt() *model.Prompt {
	return &model.Prompt{ID: "p1", Title: "Evenings", Text: "What does a weekday evening look like?", Order: 1}
}

func newResponse(id types.ResponseID, user types.UserID, content string, submitted bool) *model.Response {
	r := &model.Response{ID: id, PromptID: "p1", UserID: user, Content: content, IsSubmitted: submitted}
	if submitted {
		at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		r.SubmittedAt = &at
	}
	return r
}

func TestNewPromptView_Redaction(t *testing.T) {
	t.Run("partner content withheld until I submit", func(t *testing.T) {
		responses := []*model.Response{
			newResponse("r-bob", bob, "hello", true),
			newResponse("r-alice", alice, "my draft", false),
		}

		view := model.NewPromptView(newPrompt(), responses, nil, alice)
		gt.Value(t, view.Status).Equal(types.PromptStatusLocked)
		gt.Value(t, view.PartnerResponse).NotNil().Required()
		gt.Bool(t, view.PartnerResponse.IsSubmitted).True()
		gt.Value(t, view.PartnerResponse.SubmittedAt).NotNil()
		gt.Value(t, view.PartnerResponse.Content).Nil()
		gt.Bool(t, view.PartnerResponse.IsRedacted()).True()

		// my own draft is always visible
		gt.Value(t, view.MyResponse).NotNil().Required()
		gt.Value(t, view.MyResponse.Content).Equal("my draft")
	})

	t.Run("partner content withheld when I have no response", func(t *testing.T) {
		responses := []*model.Response{newResponse("r-bob", bob, "hello", true)}

		view := model.NewPromptView(newPrompt(), responses, nil, alice)
		gt.Value(t, view.MyResponse).Nil()
		gt.Value(t, view.PartnerResponse.Content).Nil()
		gt.Value(t, view.Status).Equal(types.PromptStatusLocked)
	})

	t.Run("partner draft released once I submit", func(t *testing.T) {
		responses := []*model.Response{
			newResponse("r-alice", alice, "mine", true),
			newResponse("r-bob", bob, "unfinished", false),
		}

		view := model.NewPromptView(newPrompt(), responses, nil, alice)
		gt.Value(t, view.Status).Equal(types.PromptStatusPendingPartner)
		gt.Value(t, view.PartnerResponse.Content).NotNil().Required()
		gt.Value(t, *view.PartnerResponse.Content).Equal("unfinished")
	})

	t.Run("partner content released after I submit", func(t *testing.T) {
		responses := []*model.Response{
			newResponse("r-alice", alice, "mine", true),
			newResponse("r-bob", bob, "hello", true),
		}

		view := model.NewPromptView(newPrompt(), responses, nil, alice)
		gt.Value(t, view.Status).Equal(types.PromptStatusReadyForReview)
		gt.Value(t, view.PartnerResponse.Content).NotNil().Required()
		gt.Value(t, *view.PartnerResponse.Content).Equal("hello")
	})
}

func TestNewPromptView_Acknowledgments(t *testing.T) {
	responses := []*model.Response{
		newResponse("r-alice", alice, "mine", true),
		newResponse("r-bob", bob, "theirs", true),
	}

	t.Run("only I acknowledged", func(t *testing.T) {
		acks := []*model.Acknowledgment{{ResponseID: "r-bob", UserID: alice}}
		view := model.NewPromptView(newPrompt(), responses, acks, alice)
		gt.Bool(t, view.PartnerResponse.HasMyAcknowledgment).True()
		gt.Bool(t, view.PartnerResponse.HasPartnerAcknowledgment).False()
		gt.Value(t, view.Status).Equal(types.PromptStatusReadyForReview)
	})

	t.Run("only partner acknowledged", func(t *testing.T) {
		acks := []*model.Acknowledgment{{ResponseID: "r-alice", UserID: bob}}
		view := model.NewPromptView(newPrompt(), responses, acks, alice)
		gt.Bool(t, view.PartnerResponse.HasMyAcknowledgment).False()
		gt.Bool(t, view.PartnerResponse.HasPartnerAcknowledgment).True()
		gt.Value(t, view.Status).Equal(types.PromptStatusReadyForReview)
	})

	t.Run("both acknowledged", func(t *testing.T) {
		acks := []*model.Acknowledgment{
			{ResponseID: "r-alice", UserID: bob},
			{ResponseID: "r-bob", UserID: alice},
		}
		view := model.NewPromptView(newPrompt(), responses, acks, alice)
		gt.Value(t, view.Status).Equal(types.PromptStatusDone)

		// the same rows give the same status from the other side
		other := model.NewPromptView(newPrompt(), responses, acks, bob)
		gt.Value(t, other.Status).Equal(types.PromptStatusDone)
		gt.Value(t, *other.PartnerResponse.Content).Equal("mine")
	})

	t.Run("acknowledgment keyed by response and actor", func(t *testing.T) {
		// alice's mark on her own response must not count as bob's
		acks := []*model.Acknowledgment{
			{ResponseID: "r-alice", UserID: alice},
			{ResponseID: "r-bob", UserID: alice},
		}
		view := model.NewPromptView(newPrompt(), responses, acks, alice)
		gt.Bool(t, view.PartnerResponse.HasPartnerAcknowledgment).False()
		gt.Value(t, view.Status).Equal(types.PromptStatusReadyForReview)
	})
}

func TestNewPromptView_IgnoresOtherPrompts(t *testing.T) {
	stray := newResponse("r-x", bob, "other prompt", true)
	stray.PromptID = "p2"

	view := model.NewPromptView(newPrompt(), []*model.Response{stray}, nil, alice)
	gt.Value(t, view.PartnerResponse).Nil()
	gt.Value(t, view.Status).Equal(types.PromptStatusIncomplete)
}

func TestNewPromptView_DoesNotAliasStorage(t *testing.T) {
	mine := newResponse("r-alice", alice, "mine", true)
	view := model.NewPromptView(newPrompt(), []*model.Response{mine}, nil, alice)

	*view.MyResponse.SubmittedAt = time.Time{}
	gt.Bool(t, mine.SubmittedAt.IsZero()).False()
}
