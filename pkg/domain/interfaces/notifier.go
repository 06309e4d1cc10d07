package interfaces

import (
	"context"

	"github.com/secmon-lab/doubleblind/pkg/domain/model"
)

// Notifier sends progress events to an out-of-band channel. Implementations
// must never include response content.
type Notifier interface {
	// NotifySubmitted is called after a user submits their response
	NotifySubmitted(ctx context.Context, prompt *model.Prompt, userName string) error

	// NotifyCompleted is called once both participants acknowledged
	NotifyCompleted(ctx context.Context, prompt *model.Prompt) error
}
