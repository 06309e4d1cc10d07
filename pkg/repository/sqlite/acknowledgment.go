package sqlite

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type acknowledgmentRepository struct {
	db *gorm.DB
}

func (row *acknowledgmentRow) toModel() *model.Acknowledgment {
	return &model.Acknowledgment{
		ID:             types.AcknowledgmentID(row.ID),
		ResponseID:     types.ResponseID(row.ResponseID),
		UserID:         types.UserID(row.UserID),
		AcknowledgedAt: row.AcknowledgedAt,
	}
}

func (r *acknowledgmentRepository) Upsert(ctx context.Context, ack *model.Acknowledgment) (*model.Acknowledgment, types.UpsertOutcome, error) {
	row := &acknowledgmentRow{
		ID:             ack.ID.String(),
		ResponseID:     ack.ResponseID.String(),
		UserID:         ack.UserID.String(),
		AcknowledgedAt: ack.AcknowledgedAt,
	}
	if row.ID == "" {
		row.ID = types.NewAcknowledgmentID().String()
	}

	var (
		saved   *model.Acknowledgment
		outcome types.UpsertOutcome
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
		if result.Error != nil {
			return goerr.Wrap(result.Error, "failed to insert acknowledgment")
		}
		if result.RowsAffected == 1 {
			saved, outcome = row.toModel(), types.UpsertInserted
			return nil
		}

		var existing acknowledgmentRow
		if err := tx.Where("response_id = ? AND user_id = ?", row.ResponseID, row.UserID).Take(&existing).Error; err != nil {
			return goerr.Wrap(err, "failed to get existing acknowledgment")
		}
		saved, outcome = existing.toModel(), types.UpsertUnchanged
		return nil
	})
	if err != nil {
		return nil, types.UpsertUnchanged, goerr.Wrap(err, "failed to upsert acknowledgment",
			goerr.V("response_id", ack.ResponseID), goerr.V("user_id", ack.UserID))
	}

	return saved, outcome, nil
}

func (r *acknowledgmentRepository) ListByResponses(ctx context.Context, responseIDs []types.ResponseID) ([]*model.Acknowledgment, error) {
	if len(responseIDs) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(responseIDs))
	for _, id := range responseIDs {
		ids = append(ids, id.String())
	}

	var rows []acknowledgmentRow
	err := r.db.WithContext(ctx).
		Where("response_id IN ?", ids).
		Order("acknowledged_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list acknowledgments")
	}

	result := make([]*model.Acknowledgment, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toModel())
	}
	return result, nil
}
