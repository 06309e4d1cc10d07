package usecase

import (
	"context"

	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
)

type nopNotifier struct{}

var _ interfaces.Notifier = nopNotifier{}

func (nopNotifier) NotifySubmitted(ctx context.Context, prompt *model.Prompt, userName string) error {
	return nil
}

func (nopNotifier) NotifyCompleted(ctx context.Context, prompt *model.Prompt) error {
	return nil
}

func isNop(n interfaces.Notifier) bool {
	_, ok := n.(nopNotifier)
	return ok
}
