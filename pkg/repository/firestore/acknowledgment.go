package firestore

import (
	"context"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type acknowledgmentDocument struct {
	ID             string    `firestore:"id"`
	ResponseID     string    `firestore:"response_id"`
	UserID         string    `firestore:"user_id"`
	AcknowledgedAt time.Time `firestore:"acknowledged_at"`
}

func toAcknowledgmentDocument(a *model.Acknowledgment) *acknowledgmentDocument {
	return &acknowledgmentDocument{
		ID:             a.ID.String(),
		ResponseID:     a.ResponseID.String(),
		UserID:         a.UserID.String(),
		AcknowledgedAt: a.AcknowledgedAt,
	}
}

func toAcknowledgmentModel(doc *acknowledgmentDocument) *model.Acknowledgment {
	return &model.Acknowledgment{
		ID:             types.AcknowledgmentID(doc.ID),
		ResponseID:     types.ResponseID(doc.ResponseID),
		UserID:         types.UserID(doc.UserID),
		AcknowledgedAt: doc.AcknowledgedAt,
	}
}

type acknowledgmentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAcknowledgmentRepository(client *firestore.Client) *acknowledgmentRepository {
	return &acknowledgmentRepository{client: client}
}

func (r *acknowledgmentRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, "acknowledgments"))
}

func (r *acknowledgmentRepository) Upsert(ctx context.Context, ack *model.Acknowledgment) (*model.Acknowledgment, types.UpsertOutcome, error) {
	ref := r.collection().Doc(ack.ResponseID.String() + "_" + ack.UserID.String())

	created := *ack
	if created.ID == "" {
		created.ID = types.NewAcknowledgmentID()
	}

	// Create fails with AlreadyExists on a duplicate, leaving the first
	// acknowledgment and its timestamp untouched.
	_, err := ref.Create(ctx, toAcknowledgmentDocument(&created))
	if err == nil {
		return &created, types.UpsertInserted, nil
	}
	if status.Code(err) != codes.AlreadyExists {
		return nil, types.UpsertUnchanged, goerr.Wrap(err, "failed to create acknowledgment",
			goerr.V("response_id", ack.ResponseID), goerr.V("user_id", ack.UserID))
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, types.UpsertUnchanged, goerr.Wrap(err, "failed to get acknowledgment",
			goerr.V("response_id", ack.ResponseID), goerr.V("user_id", ack.UserID))
	}

	var doc acknowledgmentDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, types.UpsertUnchanged, goerr.Wrap(err, "failed to unmarshal acknowledgment", goerr.V("doc_id", ref.ID))
	}
	return toAcknowledgmentModel(&doc), types.UpsertUnchanged, nil
}

func (r *acknowledgmentRepository) ListByResponses(ctx context.Context, responseIDs []types.ResponseID) ([]*model.Acknowledgment, error) {
	ids := make([]string, 0, len(responseIDs))
	for _, id := range responseIDs {
		ids = append(ids, id.String())
	}

	var mu sync.Mutex
	var result []*model.Acknowledgment

	eg, ctx := errgroup.WithContext(ctx)
	for _, batch := range chunk(ids) {
		eg.Go(func() error {
			docs, err := collect[acknowledgmentDocument](r.collection().Where("response_id", "in", batch).Documents(ctx))
			if err != nil {
				return goerr.Wrap(err, "failed to list acknowledgments", goerr.V("batch_size", len(batch)))
			}

			mu.Lock()
			defer mu.Unlock()
			for _, doc := range docs {
				result = append(result, toAcknowledgmentModel(doc))
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sortBy(result, func(a, b *model.Acknowledgment) bool {
		if !a.AcknowledgedAt.Equal(b.AcknowledgedAt) {
			return a.AcknowledgedAt.Before(b.AcknowledgedAt)
		}
		return a.ID < b.ID
	})
	return result, nil
}
