package http

import (
	"net/http"

	"github.com/secmon-lab/doubleblind/pkg/usecase"
)

type suggestionRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

func topicsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prompts, err := uc.Prompt.ListPrompts(r.Context())
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toTopicResponses(prompts))
	}
}

func listSuggestionsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := uc.Suggestion.List(r.Context())
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toSuggestionResponses(list))
	}
}

func createSuggestionHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req suggestionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(r.Context(), w, err)
			return
		}

		created, err := uc.Suggestion.Submit(r.Context(), req.Name, req.Content)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusCreated, toSuggestionResponse(created))
	}
}
