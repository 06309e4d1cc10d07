package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
	"github.com/secmon-lab/doubleblind/pkg/repository/memory"
	"github.com/secmon-lab/doubleblind/pkg/usecase"
)

const (
	alice types.UserID = "alice-sub"
	bob   types.UserID = "bob-sub"
)

// testClock advances by one second on every call so timestamps are distinct
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 2, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type notification struct {
	kind     string
	promptID types.PromptID
	userName string
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []notification
}

var _ interfaces.Notifier = &recordingNotifier{}

func (n *recordingNotifier) NotifySubmitted(ctx context.Context, prompt *model.Prompt, userName string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notification{kind: "submitted", promptID: prompt.ID, userName: userName})
	return nil
}

func (n *recordingNotifier) NotifyCompleted(ctx context.Context, prompt *model.Prompt) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notification{kind: "completed", promptID: prompt.ID})
	return nil
}

func (n *recordingNotifier) Calls() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.calls...)
}

func (n *recordingNotifier) Count(kind string) int {
	count := 0
	for _, c := range n.Calls() {
		if c.kind == kind {
			count++
		}
	}
	return count
}

// setupUseCases seeds three prompts into a fresh memory repository
func setupUseCases(t *testing.T, opts ...usecase.Option) (*usecase.UseCases, *memory.Memory, []*model.Prompt) {
	t.Helper()
	repo := memory.New()
	opts = append([]usecase.Option{usecase.WithClock(newTestClock().Now)}, opts...)
	uc := usecase.New(repo, opts...)

	_, err := uc.Prompt.Seed(context.Background(), []*model.Prompt{
		{Title: "Money", Text: "What does financial security mean to you?", Order: 1},
		{Title: "Home", Text: "Where do you see us living in five years?", Order: 2},
		{Title: "Family", Text: "How do you feel about having children?", Order: 3},
	}, false)
	gt.NoError(t, err).Required()

	prompts, err := uc.Prompt.ListPrompts(context.Background())
	gt.NoError(t, err).Required()
	gt.Array(t, prompts).Length(3).Required()

	return uc, repo, prompts
}

func submit(t *testing.T, uc *usecase.UseCases, promptID types.PromptID, userID types.UserID, content string) *model.Response {
	t.Helper()
	resp, err := uc.Response.SubmitResponse(context.Background(), promptID, userID, content)
	gt.NoError(t, err).Required()
	return resp
}
