package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

func TestPromptStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status types.PromptStatus
		want   bool
	}{
		{"valid incomplete", types.PromptStatusIncomplete, true},
		{"valid pending_partner", types.PromptStatusPendingPartner, true},
		{"valid locked", types.PromptStatusLocked, true},
		{"valid ready_for_review", types.PromptStatusReadyForReview, true},
		{"valid done", types.PromptStatusDone, true},
		{"invalid status", types.PromptStatus("archived"), false},
		{"empty status", types.PromptStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.want {
				t.Errorf("PromptStatus.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParsePromptStatus(t *testing.T) {
	for _, s := range types.AllPromptStatuses() {
		t.Run(s.String(), func(t *testing.T) {
			got, err := types.ParsePromptStatus(s.String())
			gt.NoError(t, err).Required()
			gt.Value(t, got).Equal(s)
		})
	}

	t.Run("invalid", func(t *testing.T) {
		_, err := types.ParsePromptStatus("LOCKED")
		gt.Error(t, err)
	})
}

func TestPromptStatus_AllowedMutations(t *testing.T) {
	tests := []struct {
		status      types.PromptStatus
		draft       bool
		acknowledge bool
	}{
		{types.PromptStatusIncomplete, true, false},
		{types.PromptStatusPendingPartner, false, false},
		{types.PromptStatusLocked, true, false},
		{types.PromptStatusReadyForReview, false, true},
		{types.PromptStatusDone, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			gt.Value(t, tt.status.AllowsDraft()).Equal(tt.draft)
			gt.Value(t, tt.status.AllowsSubmit()).Equal(tt.draft)
			gt.Value(t, tt.status.AllowsAcknowledge()).Equal(tt.acknowledge)
		})
	}
}
