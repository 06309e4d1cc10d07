package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

func runPromptRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put then Get", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		prompt := &model.Prompt{
			ID:        types.NewPromptID(),
			Title:     "Evenings",
			Text:      "What does a weekday evening look like for you?",
			Order:     1,
			CreatedAt: testTime(0),
		}
		gt.NoError(t, repo.Prompt().Put(ctx, prompt)).Required()

		got, err := repo.Prompt().Get(ctx, prompt.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(prompt.ID)
		gt.Value(t, got.Title).Equal(prompt.Title)
		gt.Value(t, got.Text).Equal(prompt.Text)
		gt.Value(t, got.Order).Equal(1)
		gt.Bool(t, got.CreatedAt.Equal(prompt.CreatedAt)).True()
	})

	t.Run("Put overwrites by ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		prompt := &model.Prompt{ID: types.NewPromptID(), Text: "v1", Order: 3, CreatedAt: testTime(0)}
		gt.NoError(t, repo.Prompt().Put(ctx, prompt)).Required()

		prompt.Text = "v2"
		gt.NoError(t, repo.Prompt().Put(ctx, prompt)).Required()

		got, err := repo.Prompt().Get(ctx, prompt.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Text).Equal("v2")
	})

	t.Run("Put rejects invalid prompt", func(t *testing.T) {
		repo := newRepo(t)
		err := repo.Prompt().Put(context.Background(), &model.Prompt{ID: types.NewPromptID(), Text: "", Order: 1})
		gt.Error(t, err).Is(model.ErrValidation)
	})

	t.Run("Get missing prompt", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Prompt().Get(context.Background(), types.NewPromptID())
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("List orders by Order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, order := range []int{3, 1, 2} {
			gt.NoError(t, repo.Prompt().Put(ctx, &model.Prompt{
				ID:        types.NewPromptID(),
				Text:      "prompt",
				Order:     order,
				CreatedAt: testTime(0),
			})).Required()
		}

		prompts, err := repo.Prompt().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, prompts).Length(3).Required()
		gt.Value(t, prompts[0].Order).Equal(1)
		gt.Value(t, prompts[1].Order).Equal(2)
		gt.Value(t, prompts[2].Order).Equal(3)
	})

	t.Run("DeleteAll", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Prompt().Put(ctx, &model.Prompt{ID: types.NewPromptID(), Text: "x", Order: 1, CreatedAt: testTime(0)})).Required()
		gt.NoError(t, repo.Prompt().DeleteAll(ctx)).Required()

		prompts, err := repo.Prompt().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, prompts).Length(0)
	})
}

func TestPromptRepository(t *testing.T) {
	runForAllBackends(t, runPromptRepositoryTest)
}
