package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/model/auth"
)

const authCacheTTL = 5 * time.Minute

// sessionCache keeps validated sessions for authCacheTTL. An entry never
// outlives the session it holds.
type sessionCache struct {
	entries sync.Map // auth.TokenID -> sessionEntry
}

type sessionEntry struct {
	token *auth.Token
	until time.Time
}

func newSessionCache() *sessionCache {
	return &sessionCache{}
}

func (c *sessionCache) lookup(id auth.TokenID, now time.Time) (*auth.Token, bool) {
	v, ok := c.entries.Load(id)
	if !ok {
		return nil, false
	}
	entry := v.(sessionEntry)
	if !now.Before(entry.until) {
		c.entries.CompareAndDelete(id, v)
		return nil, false
	}
	return entry.token, true
}

func (c *sessionCache) store(token *auth.Token, now time.Time) {
	until := now.Add(authCacheTTL)
	if token.ExpiresAt.Before(until) {
		until = token.ExpiresAt
	}
	c.entries.Store(token.ID, sessionEntry{token: token, until: until})
}

func (c *sessionCache) evict(id auth.TokenID) {
	c.entries.Delete(id)
}

func secretMatches(token *auth.Token, secret auth.TokenSecret) bool {
	return subtle.ConstantTimeCompare([]byte(token.Secret), []byte(secret)) == 1
}

func (uc *AuthUseCase) validateTokenWithCache(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	if err := tokenID.Validate(); err != nil {
		return nil, goerr.Wrap(ErrUnauthorized, "malformed token ID")
	}

	now := time.Now()
	if token, ok := uc.cache.lookup(tokenID, now); ok {
		if !secretMatches(token, tokenSecret) {
			return nil, goerr.Wrap(ErrUnauthorized, "invalid token secret")
		}
		return token, nil
	}

	token, err := uc.repo.GetToken(ctx, tokenID)
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		return nil, goerr.Wrap(ErrUnauthorized, "token not found", goerr.V("token_id", tokenID))
	case err != nil:
		return nil, storageError(err, "failed to get token from repository")
	}

	if !secretMatches(token, tokenSecret) {
		return nil, goerr.Wrap(ErrUnauthorized, "invalid token secret")
	}

	// Expired sessions are removed so the store does not accumulate them
	if token.IsExpired() {
		if err := uc.repo.DeleteToken(ctx, tokenID); err != nil {
			return nil, storageError(err, "failed to delete expired token", goerr.V("token_id", tokenID))
		}
		return nil, goerr.Wrap(ErrUnauthorized, "token expired")
	}

	uc.cache.store(token, now)
	return token, nil
}
