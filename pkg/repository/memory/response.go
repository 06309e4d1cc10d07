package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

type responseKey struct {
	promptID types.PromptID
	userID   types.UserID
}

type responseRepository struct {
	mu        sync.RWMutex
	responses map[types.ResponseID]*model.Response
	byKey     map[responseKey]types.ResponseID
}

func newResponseRepository() *responseRepository {
	return &responseRepository{
		responses: make(map[types.ResponseID]*model.Response),
		byKey:     make(map[responseKey]types.ResponseID),
	}
}

func (r *responseRepository) Get(ctx context.Context, id types.ResponseID) (*model.Response, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resp, ok := r.responses[id]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "response not found", goerr.V("response_id", id))
	}
	return resp.Copy(), nil
}

func (r *responseRepository) GetByPromptAndUser(ctx context.Context, promptID types.PromptID, userID types.UserID) (*model.Response, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byKey[responseKey{promptID: promptID, userID: userID}]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "response not found",
			goerr.V("prompt_id", promptID), goerr.V("user_id", userID))
	}
	return r.responses[id].Copy(), nil
}

func (r *responseRepository) ListByPrompt(ctx context.Context, promptID types.PromptID) ([]*model.Response, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Response
	for _, resp := range r.responses {
		if resp.PromptID == promptID {
			result = append(result, resp.Copy())
		}
	}
	sortResponses(result)
	return result, nil
}

func (r *responseRepository) ListByPrompts(ctx context.Context, promptIDs []types.PromptID) (map[types.PromptID][]*model.Response, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[types.PromptID]struct{}, len(promptIDs))
	for _, id := range promptIDs {
		wanted[id] = struct{}{}
	}

	result := make(map[types.PromptID][]*model.Response)
	for _, resp := range r.responses {
		if _, ok := wanted[resp.PromptID]; ok {
			result[resp.PromptID] = append(result[resp.PromptID], resp.Copy())
		}
	}
	for _, list := range result {
		sortResponses(list)
	}
	return result, nil
}

func (r *responseRepository) Upsert(ctx context.Context, response *model.Response) (*model.Response, types.UpsertOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := responseKey{promptID: response.PromptID, userID: response.UserID}
	if id, ok := r.byKey[key]; ok {
		existing := r.responses[id]
		if existing.IsSubmitted {
			return nil, types.UpsertUnchanged, goerr.Wrap(interfaces.ErrResponseLocked, "response is locked",
				goerr.V("response_id", existing.ID))
		}

		updated := response.Copy()
		updated.ID = existing.ID
		updated.CreatedAt = existing.CreatedAt
		r.responses[id] = updated
		return updated.Copy(), types.UpsertUpdated, nil
	}

	created := response.Copy()
	if created.ID == "" {
		created.ID = types.NewResponseID()
	}
	r.responses[created.ID] = created
	r.byKey[key] = created.ID
	return created.Copy(), types.UpsertInserted, nil
}

func sortResponses(list []*model.Response) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
}
