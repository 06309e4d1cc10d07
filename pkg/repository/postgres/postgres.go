package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
)

// schema is applied by Migrate. Uniqueness of (prompt_id, user_id) and
// (response_id, user_id) is enforced by the database.
const schema = `
CREATE TABLE IF NOT EXISTS prompts (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	text       TEXT NOT NULL,
	"order"    INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS responses (
	id           TEXT PRIMARY KEY,
	prompt_id    TEXT NOT NULL,
	user_id      TEXT NOT NULL,
	content      TEXT NOT NULL,
	is_submitted BOOLEAN NOT NULL DEFAULT FALSE,
	submitted_at TIMESTAMPTZ,
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL,
	UNIQUE (prompt_id, user_id)
);

CREATE TABLE IF NOT EXISTS acknowledgments (
	id              TEXT PRIMARY KEY,
	response_id     TEXT NOT NULL,
	user_id         TEXT NOT NULL,
	acknowledged_at TIMESTAMPTZ NOT NULL,
	UNIQUE (response_id, user_id)
);

CREATE TABLE IF NOT EXISTS suggestions (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS suggestions_created_at_idx ON suggestions (created_at DESC);

CREATE TABLE IF NOT EXISTS tokens (
	id         TEXT PRIMARY KEY,
	secret     TEXT NOT NULL,
	sub        TEXT NOT NULL,
	email      TEXT NOT NULL DEFAULT '',
	name       TEXT NOT NULL DEFAULT '',
	expires_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
`

type Config struct {
	DSN string

	// Schema, when set, becomes the search_path of every connection and is
	// created by Migrate
	Schema string

	MaxConns int32
	MinConns int32
}

// Postgres is a repository backed by a pgx connection pool
type Postgres struct {
	pool           *pgxpool.Pool
	schema         string
	prompt         *promptRepository
	response       *responseRepository
	acknowledgment *acknowledgmentRepository
	suggestion     *suggestionRepository
}

var _ interfaces.Repository = &Postgres{}

func New(ctx context.Context, cfg Config) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse database config")
	}

	poolCfg.MaxConns = 10
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.Schema != "" {
		poolCfg.ConnConfig.RuntimeParams["search_path"] = cfg.Schema
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create connection pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, goerr.Wrap(err, "failed to ping database")
	}

	return &Postgres{
		pool:           pool,
		schema:         cfg.Schema,
		prompt:         &promptRepository{pool: pool},
		response:       &responseRepository{pool: pool},
		acknowledgment: &acknowledgmentRepository{pool: pool},
		suggestion:     &suggestionRepository{pool: pool},
	}, nil
}

// Migrate creates tables and indexes if they do not exist
func (p *Postgres) Migrate(ctx context.Context) error {
	if p.schema != "" {
		stmt := "CREATE SCHEMA IF NOT EXISTS " + pgx.Identifier{p.schema}.Sanitize()
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return goerr.Wrap(err, "failed to create schema", goerr.V("schema", p.schema))
		}
	}
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return goerr.Wrap(err, "failed to apply schema")
	}
	return nil
}

func (p *Postgres) Prompt() interfaces.PromptRepository {
	return p.prompt
}

func (p *Postgres) Response() interfaces.ResponseRepository {
	return p.response
}

func (p *Postgres) Acknowledgment() interfaces.AcknowledgmentRepository {
	return p.acknowledgment
}

func (p *Postgres) Suggestion() interfaces.SuggestionRepository {
	return p.suggestion
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// withTx runs fn in a transaction. Rollback after commit is a no-op.
func withTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return goerr.Wrap(err, "failed to commit transaction")
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}
