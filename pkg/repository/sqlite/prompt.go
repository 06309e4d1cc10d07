package sqlite

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type promptRepository struct {
	db *gorm.DB
}

func (row *promptRow) toModel() *model.Prompt {
	return &model.Prompt{
		ID:        types.PromptID(row.ID),
		Title:     row.Title,
		Text:      row.Text,
		Order:     row.Order,
		CreatedAt: row.CreatedAt,
	}
}

func (r *promptRepository) Put(ctx context.Context, prompt *model.Prompt) error {
	if err := prompt.Validate(); err != nil {
		return goerr.Wrap(err, "invalid prompt")
	}

	row := &promptRow{
		ID:        prompt.ID.String(),
		Title:     prompt.Title,
		Text:      prompt.Text,
		Order:     prompt.Order,
		CreatedAt: prompt.CreatedAt,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "text", "sort_order"}),
	}).Create(row).Error
	if err != nil {
		return goerr.Wrap(err, "failed to put prompt", goerr.V("prompt_id", prompt.ID))
	}
	return nil
}

func (r *promptRepository) Get(ctx context.Context, id types.PromptID) (*model.Prompt, error) {
	var row promptRow
	if err := r.db.WithContext(ctx).Where("id = ?", id.String()).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "prompt not found", goerr.V("prompt_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get prompt", goerr.V("prompt_id", id))
	}
	return row.toModel(), nil
}

func (r *promptRepository) List(ctx context.Context) ([]*model.Prompt, error) {
	var rows []promptRow
	if err := r.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list prompts")
	}

	prompts := make([]*model.Prompt, 0, len(rows))
	for i := range rows {
		prompts = append(prompts, rows[i].toModel())
	}
	return prompts, nil
}

func (r *promptRepository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&promptRow{}).Error; err != nil {
		return goerr.Wrap(err, "failed to delete prompts")
	}
	return nil
}
