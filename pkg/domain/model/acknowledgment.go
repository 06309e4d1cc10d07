package model

import (
	"time"

	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

// Acknowledgment records that UserID has read the response ResponseID.
// (ResponseID, UserID) is unique and AcknowledgedAt is fixed at first creation.
type Acknowledgment struct {
	ID             types.AcknowledgmentID
	ResponseID     types.ResponseID
	UserID         types.UserID
	AcknowledgedAt time.Time
}
