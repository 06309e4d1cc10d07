package http

import (
	"time"

	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
)

type promptViewResponse struct {
	ID              string                   `json:"id"`
	Title           string                   `json:"title"`
	Text            string                   `json:"text"`
	Order           int                      `json:"order"`
	Status          types.PromptStatus       `json:"status"`
	MyResponse      *myResponseResponse      `json:"myResponse"`
	PartnerResponse *partnerResponseResponse `json:"partnerResponse"`
}

type myResponseResponse struct {
	ID          string     `json:"id"`
	Content     string     `json:"content"`
	IsSubmitted bool       `json:"isSubmitted"`
	SubmittedAt *time.Time `json:"submittedAt"`
}

// partnerResponseResponse always encodes content; null means withheld
type partnerResponseResponse struct {
	ID                       string     `json:"id"`
	IsSubmitted              bool       `json:"isSubmitted"`
	SubmittedAt              *time.Time `json:"submittedAt"`
	Content                  *string    `json:"content"`
	HasMyAcknowledgment      bool       `json:"hasMyAcknowledgment"`
	HasPartnerAcknowledgment bool       `json:"hasPartnerAcknowledgment"`
}

type responseResponse struct {
	ID          string     `json:"id"`
	PromptID    string     `json:"promptId"`
	Content     string     `json:"content"`
	IsSubmitted bool       `json:"isSubmitted"`
	SubmittedAt *time.Time `json:"submittedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type acknowledgmentResponse struct {
	ID             string              `json:"id"`
	ResponseID     string              `json:"responseId"`
	AcknowledgedAt time.Time           `json:"acknowledgedAt"`
	Outcome        types.UpsertOutcome `json:"outcome"`
}

type topicResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

type suggestionResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func toPromptViewResponse(v *model.PromptView) *promptViewResponse {
	resp := &promptViewResponse{
		ID:     v.ID.String(),
		Title:  v.Title,
		Text:   v.Text,
		Order:  v.Order,
		Status: v.Status,
	}
	if v.MyResponse != nil {
		resp.MyResponse = &myResponseResponse{
			ID:          v.MyResponse.ID.String(),
			Content:     v.MyResponse.Content,
			IsSubmitted: v.MyResponse.IsSubmitted,
			SubmittedAt: v.MyResponse.SubmittedAt,
		}
	}
	if p := v.PartnerResponse; p != nil {
		resp.PartnerResponse = &partnerResponseResponse{
			ID:                       p.ID.String(),
			IsSubmitted:              p.IsSubmitted,
			SubmittedAt:              p.SubmittedAt,
			Content:                  p.Content,
			HasMyAcknowledgment:      p.HasMyAcknowledgment,
			HasPartnerAcknowledgment: p.HasPartnerAcknowledgment,
		}
	}
	return resp
}

func toPromptViewResponses(views []*model.PromptView) []*promptViewResponse {
	result := make([]*promptViewResponse, 0, len(views))
	for _, v := range views {
		result = append(result, toPromptViewResponse(v))
	}
	return result
}

func toResponseResponse(r *model.Response) *responseResponse {
	return &responseResponse{
		ID:          r.ID.String(),
		PromptID:    r.PromptID.String(),
		Content:     r.Content,
		IsSubmitted: r.IsSubmitted,
		SubmittedAt: r.SubmittedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toAcknowledgmentResponse(a *model.Acknowledgment, outcome types.UpsertOutcome) *acknowledgmentResponse {
	return &acknowledgmentResponse{
		ID:             a.ID.String(),
		ResponseID:     a.ResponseID.String(),
		AcknowledgedAt: a.AcknowledgedAt,
		Outcome:        outcome,
	}
}

func toTopicResponses(prompts []*model.Prompt) []*topicResponse {
	result := make([]*topicResponse, 0, len(prompts))
	for _, p := range prompts {
		result = append(result, &topicResponse{
			ID:    p.ID.String(),
			Title: p.Title,
			Text:  p.Text,
			Order: p.Order,
		})
	}
	return result
}

func toSuggestionResponses(list []*model.Suggestion) []*suggestionResponse {
	result := make([]*suggestionResponse, 0, len(list))
	for _, s := range list {
		result = append(result, toSuggestionResponse(s))
	}
	return result
}

func toSuggestionResponse(s *model.Suggestion) *suggestionResponse {
	return &suggestionResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		Content:   s.Content,
		CreatedAt: s.CreatedAt,
	}
}
