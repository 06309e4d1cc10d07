package usecase

import (
	"time"

	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
)

type UseCases struct {
	repo     interfaces.Repository
	notifier interfaces.Notifier
	clock    func() time.Time

	Prompt         *PromptUseCase
	Response       *ResponseUseCase
	Acknowledgment *AcknowledgmentUseCase
	Suggestion     *SuggestionUseCase
	Auth           AuthUseCaseInterface
}

type Option func(*UseCases)

func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

// WithNotifier sets where progress events are sent. Without it events are dropped.
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(uc *UseCases) {
		if notifier != nil {
			uc.notifier = notifier
		}
	}
}

// WithClock replaces time.Now for submission and acknowledgment timestamps
func WithClock(clock func() time.Time) Option {
	return func(uc *UseCases) {
		uc.clock = clock
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:     repo,
		notifier: nopNotifier{},
		clock:    func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Prompt = NewPromptUseCase(repo, uc.clock)
	uc.Response = NewResponseUseCase(repo, uc.Prompt, uc.notifier, uc.clock)
	uc.Acknowledgment = NewAcknowledgmentUseCase(repo, uc.Prompt, uc.notifier, uc.clock)
	uc.Suggestion = NewSuggestionUseCase(repo, uc.clock)

	return uc
}
