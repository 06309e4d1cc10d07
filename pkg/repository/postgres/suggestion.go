package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

type suggestionRepository struct {
	pool *pgxpool.Pool
}

func (r *suggestionRepository) Create(ctx context.Context, suggestion *model.Suggestion) (*model.Suggestion, error) {
	if err := suggestion.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid suggestion")
	}

	created := *suggestion
	if created.ID == "" {
		created.ID = types.NewSuggestionID()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO suggestions (id, name, content, created_at) VALUES ($1, $2, $3, $4)`,
		created.ID.String(), created.Name, created.Content, created.CreatedAt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create suggestion", goerr.V("suggestion_id", created.ID))
	}
	return &created, nil
}

func (r *suggestionRepository) List(ctx context.Context, limit int) ([]*model.Suggestion, error) {
	query := `SELECT id, name, content, created_at FROM suggestions ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list suggestions")
	}
	defer rows.Close()

	var result []*model.Suggestion
	for rows.Next() {
		var (
			s  model.Suggestion
			id string
		)
		if err := rows.Scan(&id, &s.Name, &s.Content, &s.CreatedAt); err != nil {
			return nil, goerr.Wrap(err, "failed to scan suggestion")
		}
		s.ID = types.SuggestionID(id)
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate suggestions")
	}
	return result, nil
}
