package firestore

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"google.golang.org/api/iterator"
)

// Firestore has a limit of 30 items in an IN query
const inQueryLimit = 30

type Firestore struct {
	client         *firestore.Client
	prompt         *promptRepository
	response       *responseRepository
	acknowledgment *acknowledgmentRepository
	suggestion     *suggestionRepository
	tokenPrefix    string
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces every collection, used by tests to isolate runs
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.prompt.collectionPrefix = prefix
		f.response.collectionPrefix = prefix
		f.acknowledgment.collectionPrefix = prefix
		f.suggestion.collectionPrefix = prefix
		f.tokenPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:         client,
		prompt:         newPromptRepository(client),
		response:       newResponseRepository(client),
		acknowledgment: newAcknowledgmentRepository(client),
		suggestion:     newSuggestionRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Prompt() interfaces.PromptRepository {
	return f.prompt
}

func (f *Firestore) Response() interfaces.ResponseRepository {
	return f.response
}

func (f *Firestore) Acknowledgment() interfaces.AcknowledgmentRepository {
	return f.acknowledgment
}

func (f *Firestore) Suggestion() interfaces.SuggestionRepository {
	return f.suggestion
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// CollectionName applies the optional collection prefix to a base name
func CollectionName(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}

// collect drains iter, decoding every document into T
func collect[T any](iter *firestore.DocumentIterator) ([]*T, error) {
	defer iter.Stop()

	var result []*T
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate documents")
		}

		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal document", goerr.V("doc_id", doc.Ref.ID))
		}
		result = append(result, &v)
	}
	return result, nil
}

// chunk splits ids into batches accepted by an IN query
func chunk[T any](ids []T) [][]T {
	var batches [][]T
	for i := 0; i < len(ids); i += inQueryLimit {
		end := min(i+inQueryLimit, len(ids))
		batches = append(batches, ids[i:end])
	}
	return batches
}

func sortBy[T any](list []T, less func(a, b T) bool) {
	sort.SliceStable(list, func(i, j int) bool { return less(list[i], list[j]) })
}
