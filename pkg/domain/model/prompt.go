package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

// Prompt is a question both participants answer. Prompts are written by the
// seed command and are read-only afterwards.
type Prompt struct {
	ID        types.PromptID
	Title     string
	Text      string
	Order     int
	CreatedAt time.Time
}

// Validate checks the fields required before a prompt is stored
func (p *Prompt) Validate() error {
	if err := p.ID.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidPrompt, "invalid prompt ID", goerr.V("error", err.Error()))
	}
	if strings.TrimSpace(p.Text) == "" {
		return goerr.Wrap(ErrInvalidPrompt, "prompt text is required", goerr.V(OrderKey, p.Order))
	}
	if p.Order < 1 {
		return goerr.Wrap(ErrInvalidPrompt, "prompt order must be positive", goerr.V(OrderKey, p.Order))
	}
	return nil
}
