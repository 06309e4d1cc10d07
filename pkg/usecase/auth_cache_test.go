package usecase

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/doubleblind/pkg/domain/model/auth"
)

func TestSessionCache(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	t.Run("entry lives for the cache TTL", func(t *testing.T) {
		c := newSessionCache()
		token := auth.NewToken("sub", "alice@example.com", "Alice")
		token.ExpiresAt = now.Add(time.Hour)
		c.store(token, now)

		got, ok := c.lookup(token.ID, now.Add(authCacheTTL-time.Second))
		gt.True(t, ok).Required()
		gt.Value(t, got.ID).Equal(token.ID)

		_, ok = c.lookup(token.ID, now.Add(authCacheTTL))
		gt.False(t, ok)
	})

	t.Run("entry never outlives the session", func(t *testing.T) {
		c := newSessionCache()
		token := auth.NewToken("sub", "alice@example.com", "Alice")
		token.ExpiresAt = now.Add(time.Minute)
		c.store(token, now)

		_, ok := c.lookup(token.ID, now.Add(30*time.Second))
		gt.True(t, ok)

		_, ok = c.lookup(token.ID, now.Add(time.Minute))
		gt.False(t, ok)
	})

	t.Run("evict", func(t *testing.T) {
		c := newSessionCache()
		token := auth.NewToken("sub", "alice@example.com", "Alice")
		c.store(token, now)
		c.evict(token.ID)

		_, ok := c.lookup(token.ID, now)
		gt.False(t, ok)
	})
}

func TestSecretMatches(t *testing.T) {
	token := auth.NewToken("sub", "alice@example.com", "Alice")
	gt.True(t, secretMatches(token, token.Secret))
	gt.False(t, secretMatches(token, "wrong"))
	gt.False(t, secretMatches(token, ""))
}
