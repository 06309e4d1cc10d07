package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

// TokenLifetime matches the session length of the web login
const TokenLifetime = 7 * 24 * time.Hour

// TokenID is the public half of a session token, stored in the token_id cookie
type TokenID string

func NewTokenID() TokenID {
	return TokenID(uuid.New().String())
}

func (id TokenID) String() string { return string(id) }

func (id TokenID) Validate() error {
	if id == "" {
		return goerr.New("token ID is required")
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return goerr.Wrap(err, "token ID is not a UUID", goerr.V("token_id", string(id)))
	}
	return nil
}

// TokenSecret is the private half of a session token
type TokenSecret string

func NewTokenSecret() TokenSecret {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	return TokenSecret(hex.EncodeToString(buf))
}

func (s TokenSecret) String() string { return string(s) }

// Token is an authenticated session. Sub is the identity provider subject and
// becomes the user ID of every core operation.
type Token struct {
	ID        TokenID     `firestore:"id" json:"id"`
	Secret    TokenSecret `firestore:"secret" json:"secret" masq:"secret"`
	Sub       string      `firestore:"sub" json:"sub"`
	Email     string      `firestore:"email" json:"email"`
	Name      string      `firestore:"name" json:"name"`
	ExpiresAt time.Time   `firestore:"expires_at" json:"expires_at"`
	CreatedAt time.Time   `firestore:"created_at" json:"created_at"`
}

// NewToken issues a fresh token for the given identity
func NewToken(sub, email, name string) *Token {
	now := time.Now().UTC()
	return &Token{
		ID:        NewTokenID(),
		Secret:    NewTokenSecret(),
		Sub:       sub,
		Email:     email,
		Name:      name,
		ExpiresAt: now.Add(TokenLifetime),
		CreatedAt: now,
	}
}

func (t *Token) Validate() error {
	if err := t.ID.Validate(); err != nil {
		return err
	}
	if t.Secret == "" {
		return goerr.New("token secret is required")
	}
	if t.Sub == "" {
		return goerr.New("token subject is required")
	}
	return nil
}

func (t *Token) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// UserID returns the identity used by the core
func (t *Token) UserID() types.UserID {
	return types.UserID(t.Sub)
}

type ctxTokenKey struct{}

func ContextWithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// TokenFromContext returns the session token or nil when the request is
// unauthenticated. There is no anonymous fallback.
func TokenFromContext(ctx context.Context) *Token {
	token, _ := ctx.Value(ctxTokenKey{}).(*Token)
	return token
}
