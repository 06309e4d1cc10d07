package usecase_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
	"github.com/secmon-lab/doubleblind/pkg/usecase"
)

func TestNoAuthnUseCase(t *testing.T) {
	uc, err := usecase.NewNoAuthnUseCase("dev-user", "dev@example.com", "Dev User")
	gt.NoError(t, err).Required()

	t.Run("ValidateToken resolves to the configured participant", func(t *testing.T) {
		token, err := uc.ValidateToken(t.Context(), "", "")
		gt.NoError(t, err).Required()

		gt.Value(t, token.UserID()).Equal(types.UserID("dev-user"))
		gt.Value(t, token.Email).Equal("dev@example.com")
		gt.Value(t, token.Name).Equal("Dev User")
		gt.Value(t, token.Secret).Equal("")
	})

	t.Run("session ID is stable across requests", func(t *testing.T) {
		first, err := uc.ValidateToken(t.Context(), "", "")
		gt.NoError(t, err).Required()
		second, err := uc.HandleCallback(t.Context(), "any-code")
		gt.NoError(t, err).Required()

		gt.Value(t, first.ID).Equal(second.ID)
		gt.NoError(t, first.ID.Validate())
	})

	t.Run("GetAuthURL returns root path", func(t *testing.T) {
		url, err := uc.GetAuthURL(t.Context(), "state")
		gt.NoError(t, err).Required()
		gt.Value(t, url).Equal("/")
	})

	t.Run("Logout is a no-op", func(t *testing.T) {
		gt.NoError(t, uc.Logout(t.Context(), "token-id"))
		gt.Bool(t, uc.IsNoAuthn()).True()
	})

	t.Run("rejects an empty user", func(t *testing.T) {
		_, err := usecase.NewNoAuthnUseCase("", "dev@example.com", "Dev")
		gt.Error(t, err).Is(usecase.ErrUnauthorized)
	})
}
