package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/doubleblind/pkg/domain/model/auth"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

func TestNewToken(t *testing.T) {
	token := auth.NewToken("108", "a@example.com", "A")
	gt.NoError(t, token.Validate())
	gt.Value(t, token.UserID()).Equal(types.UserID("108"))
	gt.Bool(t, token.IsExpired()).False()
	gt.Value(t, token.Secret).NotEqual(auth.NewToken("108", "", "").Secret)
}

func TestToken_IsExpired(t *testing.T) {
	token := auth.NewToken("108", "a@example.com", "A")
	token.ExpiresAt = time.Now().Add(-time.Second)
	gt.Bool(t, token.IsExpired()).True()
}

func TestTokenID_Validate(t *testing.T) {
	gt.NoError(t, auth.NewTokenID().Validate())
	gt.Error(t, auth.TokenID("").Validate())
	gt.Error(t, auth.TokenID("not-a-uuid").Validate())
}

func TestTokenContext(t *testing.T) {
	gt.Value(t, auth.TokenFromContext(context.Background())).Nil()

	token := auth.NewToken("108", "a@example.com", "A")
	ctx := auth.ContextWithToken(context.Background(), token)
	gt.Value(t, auth.TokenFromContext(ctx)).Equal(token)
}
