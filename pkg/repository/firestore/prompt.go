package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type promptDocument struct {
	ID        string    `firestore:"id"`
	Title     string    `firestore:"title"`
	Text      string    `firestore:"text"`
	Order     int       `firestore:"order"`
	CreatedAt time.Time `firestore:"created_at"`
}

func toPromptDocument(p *model.Prompt) *promptDocument {
	return &promptDocument{
		ID:        p.ID.String(),
		Title:     p.Title,
		Text:      p.Text,
		Order:     p.Order,
		CreatedAt: p.CreatedAt,
	}
}

func toPromptModel(doc *promptDocument) *model.Prompt {
	return &model.Prompt{
		ID:        types.PromptID(doc.ID),
		Title:     doc.Title,
		Text:      doc.Text,
		Order:     doc.Order,
		CreatedAt: doc.CreatedAt,
	}
}

type promptRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newPromptRepository(client *firestore.Client) *promptRepository {
	return &promptRepository{client: client}
}

func (r *promptRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, "prompts"))
}

func (r *promptRepository) Put(ctx context.Context, prompt *model.Prompt) error {
	if err := prompt.Validate(); err != nil {
		return goerr.Wrap(err, "invalid prompt")
	}

	if _, err := r.collection().Doc(prompt.ID.String()).Set(ctx, toPromptDocument(prompt)); err != nil {
		return goerr.Wrap(err, "failed to put prompt", goerr.V("prompt_id", prompt.ID))
	}
	return nil
}

func (r *promptRepository) Get(ctx context.Context, id types.PromptID) (*model.Prompt, error) {
	snap, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "prompt not found", goerr.V("prompt_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get prompt", goerr.V("prompt_id", id))
	}

	var doc promptDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal prompt", goerr.V("prompt_id", id))
	}
	return toPromptModel(&doc), nil
}

func (r *promptRepository) List(ctx context.Context) ([]*model.Prompt, error) {
	docs, err := collect[promptDocument](r.collection().OrderBy("order", firestore.Asc).Documents(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list prompts")
	}

	prompts := make([]*model.Prompt, 0, len(docs))
	for _, doc := range docs {
		prompts = append(prompts, toPromptModel(doc))
	}
	return prompts, nil
}

func (r *promptRepository) DeleteAll(ctx context.Context) error {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	refs, err := iter.GetAll()
	if err != nil {
		return goerr.Wrap(err, "failed to list prompts for deletion")
	}
	if len(refs) == 0 {
		return nil
	}

	bulkWriter := r.client.BulkWriter(ctx)
	for _, snap := range refs {
		if _, err := bulkWriter.Delete(snap.Ref); err != nil {
			return goerr.Wrap(err, "failed to delete prompt", goerr.V("doc_id", snap.Ref.ID))
		}
	}
	bulkWriter.End()

	return nil
}
