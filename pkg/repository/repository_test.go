package repository_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
	"github.com/secmon-lab/doubleblind/pkg/repository/firestore"
	"github.com/secmon-lab/doubleblind/pkg/repository/memory"
	"github.com/secmon-lab/doubleblind/pkg/repository/postgres"
	"github.com/secmon-lab/doubleblind/pkg/repository/sqlite"
)

// backends lists every repository implementation the contract tests run against.
// Remote backends skip themselves unless their environment variables are set.
var backends = []struct {
	name    string
	newRepo func(t *testing.T) interfaces.Repository
}{
	{"Memory", newMemoryRepository},
	{"SQLite", newSQLiteRepository},
	{"Firestore", newFirestoreRepository},
	{"Postgres", newPostgresRepository},
}

func runForAllBackends(t *testing.T, run func(t *testing.T, newRepo func(t *testing.T) interfaces.Repository)) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			run(t, b.newRepo)
		})
	}
}

func newMemoryRepository(t *testing.T) interfaces.Repository {
	return memory.New()
}

func newSQLiteRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	ctx := context.Background()
	repo, err := sqlite.New(ctx, ":memory:")
	gt.NoError(t, err).Required()
	gt.NoError(t, repo.Migrate(ctx)).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	prefix := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func newPostgresRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	repo, err := postgres.New(ctx, postgres.Config{DSN: dsn, Schema: schema, MaxConns: 4})
	gt.NoError(t, err).Required()
	gt.NoError(t, repo.Migrate(ctx)).Required()

	t.Cleanup(func() {
		gt.NoError(t, repo.Close())

		conn, err := pgx.Connect(context.Background(), dsn)
		gt.NoError(t, err).Required()
		defer func() { _ = conn.Close(context.Background()) }()
		_, err = conn.Exec(context.Background(), "DROP SCHEMA "+pgx.Identifier{schema}.Sanitize()+" CASCADE")
		gt.NoError(t, err)
	})
	return repo
}

// testTime returns a timestamp every backend stores without precision loss
func testTime(seconds int) time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(seconds) * time.Second)
}

func newUserID() types.UserID {
	return types.UserID("user-" + uuid.NewString())
}
