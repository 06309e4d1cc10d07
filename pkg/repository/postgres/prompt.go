package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

const promptColumns = `id, title, text, "order", created_at`

type promptRepository struct {
	pool *pgxpool.Pool
}

func scanPrompt(row scanner) (*model.Prompt, error) {
	var (
		p  model.Prompt
		id string
	)
	if err := row.Scan(&id, &p.Title, &p.Text, &p.Order, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.ID = types.PromptID(id)
	return &p, nil
}

func (r *promptRepository) Put(ctx context.Context, prompt *model.Prompt) error {
	if err := prompt.Validate(); err != nil {
		return goerr.Wrap(err, "invalid prompt")
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO prompts (`+promptColumns+`) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			text = EXCLUDED.text,
			"order" = EXCLUDED."order"`,
		prompt.ID.String(), prompt.Title, prompt.Text, prompt.Order, prompt.CreatedAt)
	if err != nil {
		return goerr.Wrap(err, "failed to put prompt", goerr.V("prompt_id", prompt.ID))
	}
	return nil
}

func (r *promptRepository) Get(ctx context.Context, id types.PromptID) (*model.Prompt, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+promptColumns+` FROM prompts WHERE id = $1`, id.String())
	prompt, err := scanPrompt(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "prompt not found", goerr.V("prompt_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get prompt", goerr.V("prompt_id", id))
	}
	return prompt, nil
}

func (r *promptRepository) List(ctx context.Context) ([]*model.Prompt, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+promptColumns+` FROM prompts ORDER BY "order" ASC, id ASC`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list prompts")
	}
	defer rows.Close()

	var prompts []*model.Prompt
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan prompt")
		}
		prompts = append(prompts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate prompts")
	}
	return prompts, nil
}

func (r *promptRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM prompts`); err != nil {
		return goerr.Wrap(err, "failed to delete prompts")
	}
	return nil
}
