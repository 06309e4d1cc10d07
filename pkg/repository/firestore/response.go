package firestore

import (
	"context"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type responseDocument struct {
	ID          string     `firestore:"id"`
	PromptID    string     `firestore:"prompt_id"`
	UserID      string     `firestore:"user_id"`
	Content     string     `firestore:"content"`
	IsSubmitted bool       `firestore:"is_submitted"`
	SubmittedAt *time.Time `firestore:"submitted_at"`
	CreatedAt   time.Time  `firestore:"created_at"`
	UpdatedAt   time.Time  `firestore:"updated_at"`
}

func toResponseDocument(r *model.Response) *responseDocument {
	return &responseDocument{
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

func toResponseModel(doc *responseDocument) *model.Response {
	return &model.Response{
		ID:          types.ResponseID(doc.ID),
		PromptID:    types.PromptID(doc.PromptID),
		UserID:      types.UserID(doc.UserID),
		Content:     doc.Content,
		IsSubmitted: doc.IsSubmitted,
		SubmittedAt: doc.SubmittedAt,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

type responseRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newResponseRepository(client *firestore.Client) *responseRepository {
	return &responseRepository{client: client}
}

func (r *responseRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, "responses"))
}

// keyDoc addresses the response of userID for promptID. The document ID is
// derived from the composite key, so two writers racing on the same pair
// contend on one document.
func (r *responseRepository) keyDoc(promptID types.PromptID, userID types.UserID) *firestore.DocumentRef {
	return r.collection().Doc(promptID.String() + "_" + userID.String())
}

func (r *responseRepository) Get(ctx context.Context, id types.ResponseID) (*model.Response, error) {
	docs, err := collect[responseDocument](r.collection().Where("id", "==", id.String()).Limit(1).Documents(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get response", goerr.V("response_id", id))
	}
	if len(docs) == 0 {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "response not found", goerr.V("response_id", id))
	}
	return toResponseModel(docs[0]), nil
}

func (r *responseRepository) GetByPromptAndUser(ctx context.Context, promptID types.PromptID, userID types.UserID) (*model.Response, error) {
	snap, err := r.keyDoc(promptID, userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "response not found",
				goerr.V("prompt_id", promptID), goerr.V("user_id", userID))
		}
		return nil, goerr.Wrap(err, "failed to get response",
			goerr.V("prompt_id", promptID), goerr.V("user_id", userID))
	}

	var doc responseDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal response", goerr.V("doc_id", snap.Ref.ID))
	}
	return toResponseModel(&doc), nil
}

func (r *responseRepository) ListByPrompt(ctx context.Context, promptID types.PromptID) ([]*model.Response, error) {
	query := r.collection().
		Where("prompt_id", "==", promptID.String()).
		OrderBy("created_at", firestore.Asc)

	docs, err := collect[responseDocument](query.Documents(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list responses", goerr.V("prompt_id", promptID))
	}

	result := make([]*model.Response, 0, len(docs))
	for _, doc := range docs {
		result = append(result, toResponseModel(doc))
	}
	return result, nil
}

func (r *responseRepository) ListByPrompts(ctx context.Context, promptIDs []types.PromptID) (map[types.PromptID][]*model.Response, error) {
	ids := make([]string, 0, len(promptIDs))
	for _, id := range promptIDs {
		ids = append(ids, id.String())
	}

	var mu sync.Mutex
	result := make(map[types.PromptID][]*model.Response)

	eg, ctx := errgroup.WithContext(ctx)
	for _, batch := range chunk(ids) {
		eg.Go(func() error {
			docs, err := collect[responseDocument](r.collection().Where("prompt_id", "in", batch).Documents(ctx))
			if err != nil {
				return goerr.Wrap(err, "failed to list responses by prompts", goerr.V("batch_size", len(batch)))
			}

			mu.Lock()
			defer mu.Unlock()
			for _, doc := range docs {
				resp := toResponseModel(doc)
				result[resp.PromptID] = append(result[resp.PromptID], resp)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for _, list := range result {
		sortBy(list, func(a, b *model.Response) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		})
	}
	return result, nil
}

func (r *responseRepository) Upsert(ctx context.Context, response *model.Response) (*model.Response, types.UpsertOutcome, error) {
	ref := r.keyDoc(response.PromptID, response.UserID)

	var saved *model.Response
	var outcome types.UpsertOutcome
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to read response in transaction")
		}

		next := response.Copy()
		if err == nil && snap.Exists() {
			var existing responseDocument
			if err := snap.DataTo(&existing); err != nil {
				return goerr.Wrap(err, "failed to unmarshal response", goerr.V("doc_id", ref.ID))
			}
			if existing.IsSubmitted {
				return goerr.Wrap(interfaces.ErrResponseLocked, "response is locked", goerr.V("response_id", existing.ID))
			}

			next.ID = types.ResponseID(existing.ID)
			next.CreatedAt = existing.CreatedAt
			saved, outcome = next, types.UpsertUpdated
			return tx.Set(ref, toResponseDocument(next))
		}

		if next.ID == "" {
			next.ID = types.NewResponseID()
		}
		saved, outcome = next, types.UpsertInserted
		return tx.Create(ref, toResponseDocument(next))
	})
	if err != nil {
		return nil, types.UpsertUnchanged, goerr.Wrap(err, "failed to upsert response",
			goerr.V("prompt_id", response.PromptID), goerr.V("user_id", response.UserID))
	}

	return saved, outcome, nil
}
