package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

type acknowledgmentKey struct {
	responseID types.ResponseID
	userID     types.UserID
}

type acknowledgmentRepository struct {
	mu   sync.RWMutex
	acks map[acknowledgmentKey]*model.Acknowledgment
}

func newAcknowledgmentRepository() *acknowledgmentRepository {
	return &acknowledgmentRepository{
		acks: make(map[acknowledgmentKey]*model.Acknowledgment),
	}
}

func copyAcknowledgment(a *model.Acknowledgment) *model.Acknowledgment {
	copied := *a
	return &copied
}

func (r *acknowledgmentRepository) Upsert(ctx context.Context, ack *model.Acknowledgment) (*model.Acknowledgment, types.UpsertOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := acknowledgmentKey{responseID: ack.ResponseID, userID: ack.UserID}
	if existing, ok := r.acks[key]; ok {
		return copyAcknowledgment(existing), types.UpsertUnchanged, nil
	}

	created := copyAcknowledgment(ack)
	if created.ID == "" {
		created.ID = types.NewAcknowledgmentID()
	}
	r.acks[key] = created
	return copyAcknowledgment(created), types.UpsertInserted, nil
}

func (r *acknowledgmentRepository) ListByResponses(ctx context.Context, responseIDs []types.ResponseID) ([]*model.Acknowledgment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[types.ResponseID]struct{}, len(responseIDs))
	for _, id := range responseIDs {
		wanted[id] = struct{}{}
	}

	var result []*model.Acknowledgment
	for key, ack := range r.acks {
		if _, ok := wanted[key.responseID]; ok {
			result = append(result, copyAcknowledgment(ack))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].AcknowledgedAt.Equal(result[j].AcknowledgedAt) {
			return result[i].AcknowledgedAt.Before(result[j].AcknowledgedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}
