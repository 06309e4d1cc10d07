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

type promptRepository struct {
	mu      sync.RWMutex
	prompts map[types.PromptID]*model.Prompt
}

func newPromptRepository() *promptRepository {
	return &promptRepository{
		prompts: make(map[types.PromptID]*model.Prompt),
	}
}

func copyPrompt(p *model.Prompt) *model.Prompt {
	copied := *p
	return &copied
}

func (r *promptRepository) Put(ctx context.Context, prompt *model.Prompt) error {
	if err := prompt.Validate(); err != nil {
		return goerr.Wrap(err, "invalid prompt")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.prompts[prompt.ID] = copyPrompt(prompt)
	return nil
}

func (r *promptRepository) Get(ctx context.Context, id types.PromptID) (*model.Prompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prompt, ok := r.prompts[id]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "prompt not found", goerr.V("prompt_id", id))
	}
	return copyPrompt(prompt), nil
}

func (r *promptRepository) List(ctx context.Context) ([]*model.Prompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prompts := make([]*model.Prompt, 0, len(r.prompts))
	for _, p := range r.prompts {
		prompts = append(prompts, copyPrompt(p))
	}

	sort.Slice(prompts, func(i, j int) bool {
		if prompts[i].Order != prompts[j].Order {
			return prompts[i].Order < prompts[j].Order
		}
		return prompts[i].ID < prompts[j].ID
	})
	return prompts, nil
}

func (r *promptRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prompts = make(map[types.PromptID]*model.Prompt)
	return nil
}
