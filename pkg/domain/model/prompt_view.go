package model

import (
	"time"

	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

// PromptView is a prompt as seen by one participant: status-tagged, with the
// partner's content withheld until the viewer has submitted.
type PromptView struct {
	ID              types.PromptID
	Title           string
	Text            string
	Order           int
	Status          types.PromptStatus
	MyResponse      *MyResponseView
	PartnerResponse *PartnerResponseView
}

// MyResponseView is the viewer's own response. It is never redacted.
type MyResponseView struct {
	ID          types.ResponseID
	Content     string
	IsSubmitted bool
	SubmittedAt *time.Time
}

// PartnerResponseView is the partner's response. Content is nil while the
// viewer has not submitted; existence, IsSubmitted and SubmittedAt are always
// reported so the viewer can see that the prompt is locked.
type PartnerResponseView struct {
	ID                       types.ResponseID
	IsSubmitted              bool
	SubmittedAt              *time.Time
	Content                  *string
	HasMyAcknowledgment      bool
	HasPartnerAcknowledgment bool
}

// IsRedacted reports whether the partner's content was withheld
func (v *PartnerResponseView) IsRedacted() bool {
	return v != nil && v.Content == nil
}

// ackIndex answers "did actor X acknowledge response Y" from loaded rows
type ackIndex map[types.ResponseID]map[types.UserID]struct{}

func newAckIndex(acks []*Acknowledgment) ackIndex {
	idx := make(ackIndex)
	for _, a := range acks {
		if _, ok := idx[a.ResponseID]; !ok {
			idx[a.ResponseID] = make(map[types.UserID]struct{})
		}
		idx[a.ResponseID][a.UserID] = struct{}{}
	}
	return idx
}

func (idx ackIndex) has(responseID types.ResponseID, userID types.UserID) bool {
	_, ok := idx[responseID][userID]
	return ok
}

// hasOtherThan reports an acknowledgment on responseID by anyone but userID.
// With two participants "anyone else" is the partner.
func (idx ackIndex) hasOtherThan(responseID types.ResponseID, userID types.UserID) bool {
	for actor := range idx[responseID] {
		if actor != userID {
			return true
		}
	}
	return false
}

// NewPromptView composes the view of prompt for viewer from the prompt's stored
// responses and the acknowledgments on those responses. Responses and
// acknowledgments belonging to other prompts are ignored. This is the only
// place partner content is copied into a view.
func NewPromptView(prompt *Prompt, responses []*Response, acks []*Acknowledgment, viewer types.UserID) *PromptView {
	var mine, partner *Response
	for _, r := range responses {
		if r.PromptID != prompt.ID {
			continue
		}
		if r.UserID == viewer {
			if mine == nil {
				mine = r
			}
		} else if partner == nil {
			partner = r
		}
	}

	view := &PromptView{
		ID:    prompt.ID,
		Title: prompt.Title,
		Text:  prompt.Text,
		Order: prompt.Order,
	}

	if mine != nil {
		view.MyResponse = &MyResponseView{
			ID:          mine.ID,
			Content:     mine.Content,
			IsSubmitted: mine.IsSubmitted,
			SubmittedAt: copyTime(mine.SubmittedAt),
		}
	}

	var partnerState *PartnerResponseState
	if partner != nil {
		idx := newAckIndex(acks)
		pv := &PartnerResponseView{
			ID:                  partner.ID,
			IsSubmitted:         partner.IsSubmitted,
			SubmittedAt:         copyTime(partner.SubmittedAt),
			HasMyAcknowledgment: idx.has(partner.ID, viewer),
		}
		if mine != nil {
			pv.HasPartnerAcknowledgment = idx.hasOtherThan(mine.ID, viewer)
		}
		if mine != nil && mine.IsSubmitted {
			content := partner.Content
			pv.Content = &content
		}
		view.PartnerResponse = pv

		partnerState = &PartnerResponseState{
			IsSubmitted:              pv.IsSubmitted,
			HasMyAcknowledgment:      pv.HasMyAcknowledgment,
			HasPartnerAcknowledgment: pv.HasPartnerAcknowledgment,
		}
	}

	view.Status = ComputeStatus(mine.State(), partnerState)
	return view
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
