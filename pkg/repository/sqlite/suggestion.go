package sqlite

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
	"gorm.io/gorm"
)

type suggestionRepository struct {
	db *gorm.DB
}

func (r *suggestionRepository) Create(ctx context.Context, suggestion *model.Suggestion) (*model.Suggestion, error) {
	if err := suggestion.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid suggestion")
	}

	created := *suggestion
	if created.ID == "" {
		created.ID = types.NewSuggestionID()
	}

	row := &suggestionRow{
		ID:        created.ID.String(),
		Name:      created.Name,
		Content:   created.Content,
		CreatedAt: created.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to create suggestion", goerr.V("suggestion_id", created.ID))
	}
	return &created, nil
}

func (r *suggestionRepository) List(ctx context.Context, limit int) ([]*model.Suggestion, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []suggestionRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list suggestions")
	}

	result := make([]*model.Suggestion, 0, len(rows))
	for _, row := range rows {
		result = append(result, &model.Suggestion{
			ID:        types.SuggestionID(row.ID),
			Name:      row.Name,
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
		})
	}
	return result, nil
}
