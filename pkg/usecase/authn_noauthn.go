package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/model/auth"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

// NoAuthnUseCase signs every request in as one fixed participant. Development only.
type NoAuthnUseCase struct {
	userID types.UserID
	email  string
	name   string
	// session keeps one token ID for the process so request logs stay correlated
	session auth.TokenID
}

var _ AuthUseCaseInterface = &NoAuthnUseCase{}

// NewNoAuthnUseCase returns an authenticator that always resolves to userID
func NewNoAuthnUseCase(userID types.UserID, email, name string) (*NoAuthnUseCase, error) {
	if err := userID.Validate(); err != nil {
		return nil, goerr.Wrap(errorsJoinUnauthorized(err), "invalid no-auth user", goerr.V(UserIDKey, userID))
	}
	return &NoAuthnUseCase{
		userID:  userID,
		email:   email,
		name:    name,
		session: auth.NewTokenID(),
	}, nil
}

func (uc *NoAuthnUseCase) token() *auth.Token {
	now := time.Now().UTC()
	return &auth.Token{
		ID:        uc.session,
		Sub:       uc.userID.String(),
		Email:     uc.email,
		Name:      uc.name,
		ExpiresAt: now.Add(auth.TokenLifetime),
		CreatedAt: now,
	}
}

// GetAuthURL points at the root; there is no provider to visit
func (uc *NoAuthnUseCase) GetAuthURL(ctx context.Context, state string) (string, error) {
	return "/", nil
}

func (uc *NoAuthnUseCase) HandleCallback(ctx context.Context, code string) (*auth.Token, error) {
	return uc.token(), nil
}

// ValidateToken ignores the cookies and returns the fixed participant
func (uc *NoAuthnUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	return uc.token(), nil
}

func (uc *NoAuthnUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	return nil
}

func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}
