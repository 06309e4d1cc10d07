package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/doubleblind/pkg/repository/memory"
	"github.com/secmon-lab/doubleblind/pkg/usecase"
)

func TestSuggestionUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("submit and list newest first", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithClock(newTestClock().Now))

		_, err := uc.Suggestion.Submit(ctx, "Sam", "How do we split chores?")
		gt.NoError(t, err).Required()
		created, err := uc.Suggestion.Submit(ctx, "  Kim  ", "  What about holidays with family?  ")
		gt.NoError(t, err).Required()
		gt.Value(t, created.Name).Equal("Kim")
		gt.Value(t, created.Content).Equal("What about holidays with family?")

		list, err := uc.Suggestion.List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(2).Required()
		gt.Value(t, list[0].ID).Equal(created.ID)
	})

	testCases := []struct {
		name    string
		author  string
		content string
	}{
		{name: "empty name", author: " ", content: "long enough content"},
		{name: "name too long", author: strings.Repeat("n", 101), content: "long enough content"},
		{name: "content too short", author: "Sam", content: "short"},
		{name: "content too long", author: "Sam", content: strings.Repeat("c", 2001)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			uc := usecase.New(memory.New())

			_, err := uc.Suggestion.Submit(ctx, tc.author, tc.content)
			gt.Error(t, err).Is(usecase.ErrValidation)
		})
	}
}
