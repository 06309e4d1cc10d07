package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
	"github.com/secmon-lab/doubleblind/pkg/repository/memory"
	"github.com/secmon-lab/doubleblind/pkg/usecase"
)

func TestPromptUseCase_GetPromptView(t *testing.T) {
	ctx := context.Background()

	t.Run("empty prompt is incomplete", func(t *testing.T) {
		uc, _, prompts := setupUseCases(t)

		view, err := uc.Prompt.GetPromptView(ctx, prompts[0].ID, alice)
		gt.NoError(t, err).Required()
		gt.Value(t, view.Status).Equal(types.PromptStatusIncomplete)
		gt.Value(t, view.Title).Equal("Money")
		gt.Value(t, view.MyResponse).Nil()
		gt.Value(t, view.PartnerResponse).Nil()
	})

	t.Run("partner submission is visible but redacted", func(t *testing.T) {
		uc, _, prompts := setupUseCases(t)
		submit(t, uc, prompts[0].ID, bob, "bob's secret answer")

		view, err := uc.Prompt.GetPromptView(ctx, prompts[0].ID, alice)
		gt.NoError(t, err).Required()
		gt.Value(t, view.Status).Equal(types.PromptStatusLocked)
		gt.Value(t, view.PartnerResponse).NotNil().Required()
		gt.Bool(t, view.PartnerResponse.IsSubmitted).True()
		gt.Value(t, view.PartnerResponse.SubmittedAt).NotNil()
		gt.Bool(t, view.PartnerResponse.IsRedacted()).True()
	})

	t.Run("own draft does not release partner content", func(t *testing.T) {
		uc, _, prompts := setupUseCases(t)
		submit(t, uc, prompts[0].ID, bob, "bob's secret answer")
		_, err := uc.Response.SaveDraft(ctx, prompts[0].ID, alice, "alice thinking")
		gt.NoError(t, err).Required()

		view, err := uc.Prompt.GetPromptView(ctx, prompts[0].ID, alice)
		gt.NoError(t, err).Required()
		gt.Value(t, view.Status).Equal(types.PromptStatusLocked)
		gt.Value(t, view.MyResponse.Content).Equal("alice thinking")
		gt.Bool(t, view.PartnerResponse.IsRedacted()).True()
	})

	t.Run("submitting releases partner content", func(t *testing.T) {
		uc, _, prompts := setupUseCases(t)
		submit(t, uc, prompts[0].ID, bob, "bob's answer")
		submit(t, uc, prompts[0].ID, alice, "alice's answer")

		view, err := uc.Prompt.GetPromptView(ctx, prompts[0].ID, alice)
		gt.NoError(t, err).Required()
		gt.Value(t, view.Status).Equal(types.PromptStatusReadyForReview)
		gt.Value(t, view.PartnerResponse.Content).NotNil().Required()
		gt.Value(t, *view.PartnerResponse.Content).Equal("bob's answer")
	})

	t.Run("pending partner when only I submitted", func(t *testing.T) {
		uc, _, prompts := setupUseCases(t)
		submit(t, uc, prompts[0].ID, alice, "alice's answer")

		view, err := uc.Prompt.GetPromptView(ctx, prompts[0].ID, alice)
		gt.NoError(t, err).Required()
		gt.Value(t, view.Status).Equal(types.PromptStatusPendingPartner)
		gt.Bool(t, view.MyResponse.IsSubmitted).True()
	})

	t.Run("unknown prompt", func(t *testing.T) {
		uc, _, _ := setupUseCases(t)

		_, err := uc.Prompt.GetPromptView(ctx, types.NewPromptID(), alice)
		gt.Error(t, err).Is(usecase.ErrNotFound)
		gt.Error(t, err).Is(usecase.ErrPromptNotFound)
	})

	t.Run("missing identity", func(t *testing.T) {
		uc, _, prompts := setupUseCases(t)

		_, err := uc.Prompt.GetPromptView(ctx, prompts[0].ID, "")
		gt.Error(t, err).Is(usecase.ErrUnauthorized)
	})

	t.Run("malformed prompt ID", func(t *testing.T) {
		uc, _, _ := setupUseCases(t)

		_, err := uc.Prompt.GetPromptView(ctx, "a/b", alice)
		gt.Error(t, err).Is(usecase.ErrValidation)
	})
}

func TestPromptUseCase_ListPromptViews(t *testing.T) {
	ctx := context.Background()

	t.Run("views are ordered and scoped per prompt", func(t *testing.T) {
		uc, _, prompts := setupUseCases(t)
		submit(t, uc, prompts[1].ID, bob, "bob on home")
		submit(t, uc, prompts[2].ID, alice, "alice on family")
		submit(t, uc, prompts[2].ID, bob, "bob on family")

		views, err := uc.Prompt.ListPromptViews(ctx, alice)
		gt.NoError(t, err).Required()
		gt.Array(t, views).Length(3).Required()

		gt.Value(t, views[0].Order).Equal(1)
		gt.Value(t, views[0].Status).Equal(types.PromptStatusIncomplete)

		gt.Value(t, views[1].Status).Equal(types.PromptStatusLocked)
		gt.Bool(t, views[1].PartnerResponse.IsRedacted()).True()

		gt.Value(t, views[2].Status).Equal(types.PromptStatusReadyForReview)
		gt.Value(t, *views[2].PartnerResponse.Content).Equal("bob on family")
	})

	t.Run("same data seen from the other side", func(t *testing.T) {
		uc, _, prompts := setupUseCases(t)
		submit(t, uc, prompts[1].ID, bob, "bob on home")

		views, err := uc.Prompt.ListPromptViews(ctx, bob)
		gt.NoError(t, err).Required()
		gt.Value(t, views[1].Status).Equal(types.PromptStatusPendingPartner)
		gt.Value(t, views[1].MyResponse.Content).Equal("bob on home")
	})

	t.Run("no prompts yields an empty list", func(t *testing.T) {
		uc := usecase.New(newEmptyRepo())

		views, err := uc.Prompt.ListPromptViews(ctx, alice)
		gt.NoError(t, err).Required() // encoded as [] rather than null
		gt.True(t, views != nil)
		gt.Array(t, views).Length(0)
	})

	t.Run("missing identity", func(t *testing.T) {
		uc, _, _ := setupUseCases(t)

		_, err := uc.Prompt.ListPromptViews(ctx, "")
		gt.Error(t, err).Is(usecase.ErrUnauthorized)
	})

	t.Run("storage failure is reported as unavailable", func(t *testing.T) {
		uc := usecase.New(&failingRepo{Repository: newEmptyRepo()})

		_, err := uc.Prompt.ListPromptViews(ctx, alice)
		gt.Error(t, err).Is(usecase.ErrStorageUnavailable)
	})
}

func newEmptyRepo() interfaces.Repository {
	return memory.New()
}

// failingRepo fails every prompt read
type failingRepo struct {
	interfaces.Repository
}

var errBackendDown = errors.New("backend down")

func (r *failingRepo) Prompt() interfaces.PromptRepository {
	return &failingPromptRepo{PromptRepository: r.Repository.Prompt()}
}

type failingPromptRepo struct {
	interfaces.PromptRepository
}

func (r *failingPromptRepo) List(ctx context.Context) ([]*model.Prompt, error) {
	return nil, errBackendDown
}

func (r *failingPromptRepo) Get(ctx context.Context, id types.PromptID) (*model.Prompt, error) {
	return nil, errBackendDown
}
