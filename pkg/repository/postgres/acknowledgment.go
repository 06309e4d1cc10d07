package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

const acknowledgmentColumns = `id, response_id, user_id, acknowledged_at`

type acknowledgmentRepository struct {
	pool *pgxpool.Pool
}

func scanAcknowledgment(row scanner) (*model.Acknowledgment, error) {
	var (
		a                      model.Acknowledgment
		id, responseID, userID string
	)
	if err := row.Scan(&id, &responseID, &userID, &a.AcknowledgedAt); err != nil {
		return nil, err
	}
	a.ID = types.AcknowledgmentID(id)
	a.ResponseID = types.ResponseID(responseID)
	a.UserID = types.UserID(userID)
	return &a, nil
}

func (r *acknowledgmentRepository) Upsert(ctx context.Context, ack *model.Acknowledgment) (*model.Acknowledgment, types.UpsertOutcome, error) {
	id := ack.ID
	if id == "" {
		id = types.NewAcknowledgmentID()
	}

	var (
		saved   *model.Acknowledgment
		outcome types.UpsertOutcome
	)
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO acknowledgments (`+acknowledgmentColumns+`) VALUES ($1, $2, $3, $4)
			ON CONFLICT (response_id, user_id) DO NOTHING
			RETURNING `+acknowledgmentColumns,
			id.String(), ack.ResponseID.String(), ack.UserID.String(), ack.AcknowledgedAt)

		created, err := scanAcknowledgment(row)
		if err == nil {
			saved, outcome = created, types.UpsertInserted
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return goerr.Wrap(err, "failed to insert acknowledgment")
		}

		// duplicate: keep the original row and timestamp
		existing, err := scanAcknowledgment(tx.QueryRow(ctx,
			`SELECT `+acknowledgmentColumns+` FROM acknowledgments WHERE response_id = $1 AND user_id = $2`,
			ack.ResponseID.String(), ack.UserID.String()))
		if err != nil {
			return goerr.Wrap(err, "failed to get existing acknowledgment")
		}
		saved, outcome = existing, types.UpsertUnchanged
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

	rows, err := r.pool.Query(ctx,
		`SELECT `+acknowledgmentColumns+` FROM acknowledgments WHERE response_id = ANY($1) ORDER BY acknowledged_at ASC, id ASC`,
		ids)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list acknowledgments")
	}
	defer rows.Close()

	var result []*model.Acknowledgment
	for rows.Next() {
		a, err := scanAcknowledgment(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan acknowledgment")
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate acknowledgments")
	}
	return result, nil
}
