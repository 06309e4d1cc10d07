package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/model/auth"
)

func runAuthRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("PutToken and GetToken", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		token := auth.NewToken("user-123", "test@example.com", "Test User")
		gt.NoError(t, repo.PutToken(ctx, token)).Required()

		retrieved, err := repo.GetToken(ctx, token.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.ID).Equal(token.ID)
		gt.Value(t, retrieved.Secret).Equal(token.Secret)
		gt.Value(t, retrieved.Sub).Equal(token.Sub)
		gt.Value(t, retrieved.Email).Equal(token.Email)
		gt.Value(t, retrieved.Name).Equal(token.Name)

		// tolerance for backend timestamp precision
		diff := retrieved.ExpiresAt.Sub(token.ExpiresAt)
		gt.Bool(t, diff < time.Second && diff > -time.Second).True()
	})

	t.Run("GetToken not found", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetToken(context.Background(), auth.NewTokenID())
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("DeleteToken", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		token := auth.NewToken("user-456", "", "")
		gt.NoError(t, repo.PutToken(ctx, token)).Required()
		gt.NoError(t, repo.DeleteToken(ctx, token.ID)).Required()

		_, err := repo.GetToken(ctx, token.ID)
		gt.Error(t, err).Is(interfaces.ErrNotFound)

		gt.Error(t, repo.DeleteToken(ctx, token.ID)).Is(interfaces.ErrNotFound)
	})

	t.Run("invalid token ID", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetToken(context.Background(), auth.TokenID("not-a-uuid"))
		gt.Error(t, err)
	})

	t.Run("PutToken rejects token without subject", func(t *testing.T) {
		repo := newRepo(t)
		token := auth.NewToken("", "a@example.com", "")
		gt.Error(t, repo.PutToken(context.Background(), token))
	})
}

func TestAuthRepository(t *testing.T) {
	runForAllBackends(t, runAuthRepositoryTest)
}
