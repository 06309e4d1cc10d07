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

const responseColumns = `id, prompt_id, user_id, content, is_submitted, submitted_at, created_at, updated_at`

type responseRepository struct {
	pool *pgxpool.Pool
}

func scanResponse(row scanner, extra ...any) (*model.Response, error) {
	var (
		r                    model.Response
		id, promptID, userID string
	)
	dest := append([]any{&id, &promptID, &userID, &r.Content, &r.IsSubmitted, &r.SubmittedAt, &r.CreatedAt, &r.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	r.ID = types.ResponseID(id)
	r.PromptID = types.PromptID(promptID)
	r.UserID = types.UserID(userID)
	return &r, nil
}

func collectResponses(rows pgx.Rows) ([]*model.Response, error) {
	defer rows.Close()

	var result []*model.Response
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan response")
		}
		result = append(result, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate responses")
	}
	return result, nil
}

func (r *responseRepository) Get(ctx context.Context, id types.ResponseID) (*model.Response, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+responseColumns+` FROM responses WHERE id = $1`, id.String())
	resp, err := scanResponse(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "response not found", goerr.V("response_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get response", goerr.V("response_id", id))
	}
	return resp, nil
}

func (r *responseRepository) GetByPromptAndUser(ctx context.Context, promptID types.PromptID, userID types.UserID) (*model.Response, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+responseColumns+` FROM responses WHERE prompt_id = $1 AND user_id = $2`,
		promptID.String(), userID.String())
	resp, err := scanResponse(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "response not found",
				goerr.V("prompt_id", promptID), goerr.V("user_id", userID))
		}
		return nil, goerr.Wrap(err, "failed to get response",
			goerr.V("prompt_id", promptID), goerr.V("user_id", userID))
	}
	return resp, nil
}

func (r *responseRepository) ListByPrompt(ctx context.Context, promptID types.PromptID) ([]*model.Response, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+responseColumns+` FROM responses WHERE prompt_id = $1 ORDER BY created_at ASC, id ASC`,
		promptID.String())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list responses", goerr.V("prompt_id", promptID))
	}
	return collectResponses(rows)
}

func (r *responseRepository) ListByPrompts(ctx context.Context, promptIDs []types.PromptID) (map[types.PromptID][]*model.Response, error) {
	result := make(map[types.PromptID][]*model.Response)
	if len(promptIDs) == 0 {
		return result, nil
	}

	ids := make([]string, 0, len(promptIDs))
	for _, id := range promptIDs {
		ids = append(ids, id.String())
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+responseColumns+` FROM responses WHERE prompt_id = ANY($1) ORDER BY created_at ASC, id ASC`,
		ids)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list responses by prompts")
	}

	list, err := collectResponses(rows)
	if err != nil {
		return nil, err
	}
	for _, resp := range list {
		result[resp.PromptID] = append(result[resp.PromptID], resp)
	}
	return result, nil
}

// Upsert relies on ON CONFLICT for atomicity. The WHERE clause on the update
// arm skips submitted rows, in which case no row is returned. xmax is zero
// only for a freshly inserted tuple.
func (r *responseRepository) Upsert(ctx context.Context, response *model.Response) (*model.Response, types.UpsertOutcome, error) {
	id := response.ID
	if id == "" {
		id = types.NewResponseID()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO responses (`+responseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (prompt_id, user_id) DO UPDATE SET
			content = EXCLUDED.content,
			is_submitted = EXCLUDED.is_submitted,
			submitted_at = EXCLUDED.submitted_at,
			updated_at = EXCLUDED.updated_at
		WHERE responses.is_submitted = FALSE
		RETURNING `+responseColumns+`, (xmax = 0) AS inserted`,
		id.String(), response.PromptID.String(), response.UserID.String(), response.Content,
		response.IsSubmitted, response.SubmittedAt, response.CreatedAt, response.UpdatedAt)

	var inserted bool
	saved, err := scanResponse(row, &inserted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.UpsertUnchanged, goerr.Wrap(interfaces.ErrResponseLocked, "response is locked",
				goerr.V("prompt_id", response.PromptID), goerr.V("user_id", response.UserID))
		}
		return nil, types.UpsertUnchanged, goerr.Wrap(err, "failed to upsert response",
			goerr.V("prompt_id", response.PromptID), goerr.V("user_id", response.UserID))
	}

	if inserted {
		return saved, types.UpsertInserted, nil
	}
	return saved, types.UpsertUpdated, nil
}
