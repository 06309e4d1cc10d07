package types

import "fmt"

// PromptStatus represents where a prompt stands for one participant of the pair.
// It is never stored; it is derived from both responses and their acknowledgments.
type PromptStatus string

const (
	PromptStatusIncomplete     PromptStatus = "incomplete"
	PromptStatusPendingPartner PromptStatus = "pending_partner"
	PromptStatusLocked         PromptStatus = "locked"
	PromptStatusReadyForReview PromptStatus = "ready_for_review"
	PromptStatusDone           PromptStatus = "done"
)

// AllPromptStatuses returns all valid prompt statuses in lifecycle order
func AllPromptStatuses() []PromptStatus {
	return []PromptStatus{
		PromptStatusIncomplete,
		PromptStatusPendingPartner,
		PromptStatusLocked,
		PromptStatusReadyForReview,
		PromptStatusDone,
	}
}

// IsValid checks if the prompt status is valid
func (s PromptStatus) IsValid() bool {
	switch s {
	case PromptStatusIncomplete,
		PromptStatusPendingPartner,
		PromptStatusLocked,
		PromptStatusReadyForReview,
		PromptStatusDone:
		return true
	default:
		return false
	}
}

// AllowsDraft reports whether the viewer may still save a draft.
func (s PromptStatus) AllowsDraft() bool {
	return s == PromptStatusIncomplete || s == PromptStatusLocked
}

// AllowsSubmit reports whether the viewer may still submit. Drafting and
// submitting share the same window: both end with the viewer's own submission.
func (s PromptStatus) AllowsSubmit() bool {
	return s.AllowsDraft()
}

// AllowsAcknowledge reports whether both answers are visible and the pair is
// still acknowledging each other.
func (s PromptStatus) AllowsAcknowledge() bool {
	return s == PromptStatusReadyForReview
}

// String returns the string representation of the prompt status
func (s PromptStatus) String() string {
	return string(s)
}

// ParsePromptStatus parses a string into a PromptStatus
func ParsePromptStatus(s string) (PromptStatus, error) {
	status := PromptStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid prompt status: %s", s)
	}
	return status, nil
}
