package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/repository/firestore"
	"github.com/secmon-lab/doubleblind/pkg/repository/memory"
	"github.com/secmon-lab/doubleblind/pkg/repository/postgres"
	"github.com/secmon-lab/doubleblind/pkg/repository/sqlite"
	"github.com/secmon-lab/doubleblind/pkg/utils/logging"
	"github.com/secmon-lab/doubleblind/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
	BackendSQLite    = "sqlite"
)

// Repository holds CLI flags for repository backend configuration
type Repository struct {
	backend          string
	projectID        string
	databaseID       string
	collectionPrefix string
	postgresDSN      string
	postgresSchema   string
	postgresMaxConns int
	sqlitePath       string
	autoMigrate      bool
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Repository backend type (memory, firestore, postgres, sqlite)",
			Value:       BackendFirestore,
			Category:    "Repository",
			Sources:     cli.EnvVars("DOUBLEBLIND_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("DOUBLEBLIND_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Category:    "Repository",
			Sources:     cli.EnvVars("DOUBLEBLIND_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Usage:       "Prefix added to every Firestore collection name",
			Category:    "Repository",
			Sources:     cli.EnvVars("DOUBLEBLIND_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &r.collectionPrefix,
		},
		&cli.StringFlag{
			Name:        "postgres-dsn",
			Usage:       "PostgreSQL connection string (required when using postgres backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("DOUBLEBLIND_POSTGRES_DSN", "DATABASE_URL"),
			Destination: &r.postgresDSN,
		},
		&cli.StringFlag{
			Name:        "postgres-schema",
			Usage:       "PostgreSQL schema for all tables",
			Category:    "Repository",
			Sources:     cli.EnvVars("DOUBLEBLIND_POSTGRES_SCHEMA"),
			Destination: &r.postgresSchema,
		},
		&cli.IntFlag{
			Name:        "postgres-max-conns",
			Usage:       "Maximum PostgreSQL pool size",
			Value:       10,
			Category:    "Repository",
			Sources:     cli.EnvVars("DOUBLEBLIND_POSTGRES_MAX_CONNS"),
			Destination: &r.postgresMaxConns,
		},
		&cli.StringFlag{
			Name:        "sqlite-path",
			Usage:       "SQLite database file (required when using sqlite backend)",
			Value:       "doubleblind.db",
			Category:    "Repository",
			Sources:     cli.EnvVars("DOUBLEBLIND_SQLITE_PATH"),
			Destination: &r.sqlitePath,
		},
		&cli.BoolFlag{
			Name:        "auto-migrate",
			Usage:       "Create SQL tables on startup (postgres, sqlite)",
			Value:       true,
			Category:    "Repository",
			Sources:     cli.EnvVars("DOUBLEBLIND_AUTO_MIGRATE"),
			Destination: &r.autoMigrate,
		},
	}
}

func (r Repository) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", r.backend),
		slog.String("firestore_project_id", r.projectID),
		slog.String("firestore_database_id", r.databaseID),
		slog.Int("postgres_dsn.len", len(r.postgresDSN)),
		slog.String("postgres_schema", r.postgresSchema),
		slog.String("sqlite_path", r.sqlitePath),
	)
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// ProjectID returns the Firestore project ID
func (r *Repository) ProjectID() string {
	return r.projectID
}

// DatabaseID returns the Firestore database ID
func (r *Repository) DatabaseID() string {
	return r.databaseID
}

// CollectionPrefix returns the Firestore collection name prefix
func (r *Repository) CollectionPrefix() string {
	return r.collectionPrefix
}

// Migrator is implemented by backends that own their schema
type Migrator interface {
	Migrate(ctx context.Context) error
}

// Configure initializes and returns a repository based on the configured backend.
// The caller is responsible for calling Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	repo, err := r.open(ctx)
	if err != nil {
		return nil, err
	}

	if m, ok := repo.(Migrator); ok && r.autoMigrate {
		if err := m.Migrate(ctx); err != nil {
			_ = repo.Close()
			return nil, goerr.Wrap(err, "failed to migrate repository", goerr.V(BackendKey, r.backend))
		}
	}
	return repo, nil
}

// Migrate opens the configured backend and applies its schema regardless of
// the auto-migrate flag. Backends without a schema are opened and closed.
func (r *Repository) Migrate(ctx context.Context) error {
	repo, err := r.open(ctx)
	if err != nil {
		return err
	}
	defer safe.Close(ctx, repo, "repository")

	if m, ok := repo.(Migrator); ok {
		if err := m.Migrate(ctx); err != nil {
			return goerr.Wrap(err, "failed to migrate repository", goerr.V(BackendKey, r.backend))
		}
	}
	return nil
}

func (r *Repository) open(ctx context.Context) (interfaces.Repository, error) {
	switch r.backend {
	case BackendFirestore:
		if r.projectID == "" {
			return nil, goerr.Wrap(ErrMissingSetting, "firestore-project-id is required when using firestore backend",
				goerr.V(FlagKey, "firestore-project-id"))
		}
		var opts []firestore.Option
		if r.collectionPrefix != "" {
			opts = append(opts, firestore.WithCollectionPrefix(r.collectionPrefix))
		}
		repo, err := firestore.New(ctx, r.projectID, r.databaseID, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.Default().Info("Using Firestore repository",
			"project_id", r.projectID,
			"database_id", r.databaseID,
		)
		return repo, nil

	case BackendPostgres:
		if r.postgresDSN == "" {
			return nil, goerr.Wrap(ErrMissingSetting, "postgres-dsn is required when using postgres backend",
				goerr.V(FlagKey, "postgres-dsn"))
		}
		repo, err := postgres.New(ctx, postgres.Config{
			DSN:      r.postgresDSN,
			Schema:   r.postgresSchema,
			MaxConns: int32(r.postgresMaxConns),
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize postgres repository")
		}
		logging.Default().Info("Using PostgreSQL repository", "schema", r.postgresSchema)
		return repo, nil

	case BackendSQLite:
		if r.sqlitePath == "" {
			return nil, goerr.Wrap(ErrMissingSetting, "sqlite-path is required when using sqlite backend",
				goerr.V(FlagKey, "sqlite-path"))
		}
		repo, err := sqlite.New(ctx, r.sqlitePath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize sqlite repository")
		}
		logging.Default().Info("Using SQLite repository", "path", r.sqlitePath)
		return repo, nil

	case BackendMemory:
		logging.Default().Info("Using in-memory repository (development mode)")
		return memory.New(), nil

	default:
		return nil, goerr.Wrap(ErrInvalidBackend, "unknown repository backend", goerr.V(BackendKey, r.backend))
	}
}
