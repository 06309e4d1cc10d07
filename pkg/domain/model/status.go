package model

import "github.com/secmon-lab/doubleblind/pkg/domain/types"

// ResponseState is the viewer's side of the status computation
type ResponseState struct {
	IsSubmitted bool
}

// PartnerResponseState is the partner's side of the status computation.
// HasMyAcknowledgment: the viewer acknowledged the partner's response.
// HasPartnerAcknowledgment: the partner acknowledged the viewer's response.
type PartnerResponseState struct {
	IsSubmitted              bool
	HasMyAcknowledgment      bool
	HasPartnerAcknowledgment bool
}

// ComputeStatus maps submission and acknowledgment facts to a PromptStatus.
// Missing records mean "not yet happened"; the function is total.
func ComputeStatus(my *ResponseState, partner *PartnerResponseState) types.PromptStatus {
	mySubmitted := my != nil && my.IsSubmitted
	partnerSubmitted := partner != nil && partner.IsSubmitted

	switch {
	case !mySubmitted && !partnerSubmitted:
		return types.PromptStatusIncomplete
	case mySubmitted && !partnerSubmitted:
		return types.PromptStatusPendingPartner
	case !mySubmitted && partnerSubmitted:
		return types.PromptStatusLocked
	}

	if partner.HasMyAcknowledgment && partner.HasPartnerAcknowledgment {
		return types.PromptStatusDone
	}
	return types.PromptStatusReadyForReview
}
