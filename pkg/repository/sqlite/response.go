package sqlite

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
	"gorm.io/gorm"
)

type responseRepository struct {
	db *gorm.DB
}

func toResponseRow(r *model.Response) *responseRow {
	return &responseRow{
		ID:          r.ID.String(),
		PromptID:    r.PromptID.String(),
		UserID:      r.UserID.String(),
		Content:     r.Content,
		IsSubmitted: r.IsSubmitted,
		SubmittedAt: r.SubmittedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (row *responseRow) toModel() *model.Response {
	return &model.Response{
		ID:          types.ResponseID(row.ID),
		PromptID:    types.PromptID(row.PromptID),
		UserID:      types.UserID(row.UserID),
		Content:     row.Content,
		IsSubmitted: row.IsSubmitted,
		SubmittedAt: row.SubmittedAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func (r *responseRepository) Get(ctx context.Context, id types.ResponseID) (*model.Response, error) {
	var row responseRow
	if err := r.db.WithContext(ctx).Where("id = ?", id.String()).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "response not found", goerr.V("response_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get response", goerr.V("response_id", id))
	}
	return row.toModel(), nil
}

func (r *responseRepository) GetByPromptAndUser(ctx context.Context, promptID types.PromptID, userID types.UserID) (*model.Response, error) {
	var row responseRow
	err := r.db.WithContext(ctx).
		Where("prompt_id = ? AND user_id = ?", promptID.String(), userID.String()).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "response not found",
				goerr.V("prompt_id", promptID), goerr.V("user_id", userID))
		}
		return nil, goerr.Wrap(err, "failed to get response",
			goerr.V("prompt_id", promptID), goerr.V("user_id", userID))
	}
	return row.toModel(), nil
}

func (r *responseRepository) ListByPrompt(ctx context.Context, promptID types.PromptID) ([]*model.Response, error) {
	var rows []responseRow
	err := r.db.WithContext(ctx).
		Where("prompt_id = ?", promptID.String()).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list responses", goerr.V("prompt_id", promptID))
	}

	result := make([]*model.Response, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toModel())
	}
	return result, nil
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

	var rows []responseRow
	err := r.db.WithContext(ctx).
		Where("prompt_id IN ?", ids).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list responses by prompts")
	}

	for i := range rows {
		resp := rows[i].toModel()
		result[resp.PromptID] = append(result[resp.PromptID], resp)
	}
	return result, nil
}

func (r *responseRepository) Upsert(ctx context.Context, response *model.Response) (*model.Response, types.UpsertOutcome, error) {
	var (
		saved   *model.Response
		outcome types.UpsertOutcome
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing responseRow
		err := tx.Where("prompt_id = ? AND user_id = ?", response.PromptID.String(), response.UserID.String()).
			Take(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := toResponseRow(response)
			if row.ID == "" {
				row.ID = types.NewResponseID().String()
			}
			if err := tx.Create(row).Error; err != nil {
				return goerr.Wrap(err, "failed to insert response")
			}
			saved, outcome = row.toModel(), types.UpsertInserted
			return nil

		case err != nil:
			return goerr.Wrap(err, "failed to read response")

		case existing.IsSubmitted:
			return goerr.Wrap(interfaces.ErrResponseLocked, "response is locked", goerr.V("response_id", existing.ID))
		}

		err = tx.Model(&responseRow{}).Where("id = ?", existing.ID).Updates(map[string]any{
			"content":      response.Content,
			"is_submitted": response.IsSubmitted,
			"submitted_at": response.SubmittedAt,
			"updated_at":   response.UpdatedAt,
		}).Error
		if err != nil {
			return goerr.Wrap(err, "failed to update response")
		}

		updated := response.Copy()
		updated.ID = types.ResponseID(existing.ID)
		updated.CreatedAt = existing.CreatedAt
		saved, outcome = updated, types.UpsertUpdated
		return nil
	})
	if err != nil {
		return nil, types.UpsertUnchanged, goerr.Wrap(err, "failed to upsert response",
			goerr.V("prompt_id", response.PromptID), goerr.V("user_id", response.UserID))
	}

	return saved, outcome, nil
}
