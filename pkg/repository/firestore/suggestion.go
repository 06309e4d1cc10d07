package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

type suggestionDocument struct {
	ID        string    `firestore:"id"`
	Name      string    `firestore:"name"`
	Content   string    `firestore:"content"`
	CreatedAt time.Time `firestore:"created_at"`
}

type suggestionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSuggestionRepository(client *firestore.Client) *suggestionRepository {
	return &suggestionRepository{client: client}
}

func (r *suggestionRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, "suggestions"))
}

func (r *suggestionRepository) Create(ctx context.Context, suggestion *model.Suggestion) (*model.Suggestion, error) {
	if err := suggestion.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid suggestion")
	}

	created := *suggestion
	if created.ID == "" {
		created.ID = types.NewSuggestionID()
	}

	doc := &suggestionDocument{
		ID:        created.ID.String(),
		Name:      created.Name,
		Content:   created.Content,
		CreatedAt: created.CreatedAt,
	}
	if _, err := r.collection().Doc(doc.ID).Create(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create suggestion", goerr.V("suggestion_id", doc.ID))
	}
	return &created, nil
}

func (r *suggestionRepository) List(ctx context.Context, limit int) ([]*model.Suggestion, error) {
	query := r.collection().OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	docs, err := collect[suggestionDocument](query.Documents(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list suggestions")
	}

	result := make([]*model.Suggestion, 0, len(docs))
	for _, doc := range docs {
		result = append(result, &model.Suggestion{
			ID:        types.SuggestionID(doc.ID),
			Name:      doc.Name,
			Content:   doc.Content,
			CreatedAt: doc.CreatedAt,
		})
	}
	return result, nil
}
