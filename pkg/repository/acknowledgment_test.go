package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

func runAcknowledgmentRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("duplicate keeps the original timestamp", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		responseID := types.NewResponseID()
		userID := newUserID()

		first, outcome, err := repo.Acknowledgment().Upsert(ctx, &model.Acknowledgment{
			ID:             types.NewAcknowledgmentID(),
			ResponseID:     responseID,
			UserID:         userID,
			AcknowledgedAt: testTime(0),
		})
		gt.NoError(t, err).Required()
		gt.Value(t, outcome).Equal(types.UpsertInserted)

		again, outcome, err := repo.Acknowledgment().Upsert(ctx, &model.Acknowledgment{
			ID:             types.NewAcknowledgmentID(),
			ResponseID:     responseID,
			UserID:         userID,
			AcknowledgedAt: testTime(3600),
		})
		gt.NoError(t, err).Required()
		gt.Value(t, outcome).Equal(types.UpsertUnchanged)
		gt.Value(t, again.ID).Equal(first.ID)
		gt.Bool(t, again.AcknowledgedAt.Equal(testTime(0))).True()

		list, err := repo.Acknowledgment().ListByResponses(ctx, []types.ResponseID{responseID})
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(1)
	})

	t.Run("concurrent duplicates resolve to one row", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		responseID := types.NewResponseID()
		userID := newUserID()

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, _ = repo.Acknowledgment().Upsert(ctx, &model.Acknowledgment{
					ID:             types.NewAcknowledgmentID(),
					ResponseID:     responseID,
					UserID:         userID,
					AcknowledgedAt: testTime(0),
				})
			}()
		}
		wg.Wait()

		list, err := repo.Acknowledgment().ListByResponses(ctx, []types.ResponseID{responseID})
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(1)
	})

	t.Run("ListByResponses filters by response", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		r1, r2, r3 := types.NewResponseID(), types.NewResponseID(), types.NewResponseID()
		alice, bob := newUserID(), newUserID()

		for _, ack := range []*model.Acknowledgment{
			{ResponseID: r1, UserID: bob, AcknowledgedAt: testTime(1)},
			{ResponseID: r2, UserID: alice, AcknowledgedAt: testTime(2)},
			{ResponseID: r3, UserID: alice, AcknowledgedAt: testTime(3)},
		} {
			_, _, err := repo.Acknowledgment().Upsert(ctx, ack)
			gt.NoError(t, err).Required()
		}

		list, err := repo.Acknowledgment().ListByResponses(ctx, []types.ResponseID{r1, r2})
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(2).Required()
		gt.Value(t, list[0].ResponseID).Equal(r1)
		gt.Value(t, list[0].UserID).Equal(bob)
		gt.Value(t, list[1].ResponseID).Equal(r2)

		none, err := repo.Acknowledgment().ListByResponses(ctx, nil)
		gt.NoError(t, err).Required()
		gt.Array(t, none).Length(0)
	})
}

func TestAcknowledgmentRepository(t *testing.T) {
	runForAllBackends(t, runAcknowledgmentRepositoryTest)
}
