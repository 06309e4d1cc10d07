package model_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
)

func TestSuggestion_Validate(t *testing.T) {
	tests := []struct {
		name    string
		s       model.Suggestion
		wantErr error
	}{
		{"valid", model.Suggestion{Name: "Sam", Content: "Ask about holidays"}, nil},
		{"missing name", model.Suggestion{Name: "  ", Content: "Ask about holidays"}, model.ErrInvalidName},
		{"long name", model.Suggestion{Name: strings.Repeat("n", 101), Content: "Ask about holidays"}, model.ErrInvalidName},
		{"short content", model.Suggestion{Name: "Sam", Content: "pets"}, model.ErrContentTooShort},
		{"long content", model.Suggestion{Name: "Sam", Content: strings.Repeat("c", 2001)}, model.ErrContentTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.wantErr == nil {
				gt.NoError(t, err)
				return
			}
			gt.Error(t, err).Is(tt.wantErr)
		})
	}
}

func TestPrompt_Validate(t *testing.T) {
	gt.NoError(t, (&model.Prompt{ID: "p1", Text: "Where do you see us living?", Order: 15}).Validate())
	gt.Error(t, (&model.Prompt{ID: "", Text: "x", Order: 1}).Validate()).Is(model.ErrInvalidPrompt)
	gt.Error(t, (&model.Prompt{ID: "p1", Text: " ", Order: 1}).Validate()).Is(model.ErrInvalidPrompt)
	gt.Error(t, (&model.Prompt{ID: "p1", Text: "x", Order: 0}).Validate()).Is(model.ErrInvalidPrompt)
}
