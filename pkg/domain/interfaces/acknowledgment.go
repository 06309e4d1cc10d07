package interfaces

import (
	"context"

	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

// AcknowledgmentRepository defines the interface for Acknowledgment data
// access. (ResponseID, UserID) is unique.
type AcknowledgmentRepository interface {
	// Upsert inserts ack if (ResponseID, UserID) is new. Otherwise the stored
	// row is returned untouched with UpsertUnchanged; the original
	// AcknowledgedAt is never overwritten.
	Upsert(ctx context.Context, ack *model.Acknowledgment) (*model.Acknowledgment, types.UpsertOutcome, error)

	// ListByResponses retrieves acknowledgments for the given responses
	ListByResponses(ctx context.Context, responseIDs []types.ResponseID) ([]*model.Acknowledgment, error)
}
