package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/model/auth"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
	"github.com/secmon-lab/doubleblind/pkg/usecase"
)

type contentRequest struct {
	Content string `json:"content"`
}

// userIDFrom returns the caller identity placed by authMiddleware
func userIDFrom(r *http.Request) types.UserID {
	token := auth.TokenFromContext(r.Context())
	if token == nil {
		return ""
	}
	return token.UserID()
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return goerr.Wrap(usecase.ErrValidation, "invalid request body", goerr.V("error", err.Error()))
	}
	return nil
}

func listPromptViewsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := uc.Prompt.ListPromptViews(r.Context(), userIDFrom(r))
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toPromptViewResponses(views))
	}
}

func getPromptViewHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promptID := types.PromptID(chi.URLParam(r, "promptID"))

		view, err := uc.Prompt.GetPromptView(r.Context(), promptID, userIDFrom(r))
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toPromptViewResponse(view))
	}
}

func saveDraftHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(r.Context(), w, err)
			return
		}
		promptID := types.PromptID(chi.URLParam(r, "promptID"))

		resp, err := uc.Response.SaveDraft(r.Context(), promptID, userIDFrom(r), req.Content)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toResponseResponse(resp))
	}
}

func submitResponseHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(r.Context(), w, err)
			return
		}
		promptID := types.PromptID(chi.URLParam(r, "promptID"))

		resp, err := uc.Response.SubmitResponse(r.Context(), promptID, userIDFrom(r), req.Content)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toResponseResponse(resp))
	}
}

func acknowledgeHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responseID := types.ResponseID(chi.URLParam(r, "responseID"))

		ack, outcome, err := uc.Acknowledgment.Acknowledge(r.Context(), responseID, userIDFrom(r))
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}

		status := http.StatusOK
		if outcome.Created() {
			status = http.StatusCreated
		}
		writeJSON(r.Context(), w, status, toAcknowledgmentResponse(ack, outcome))
	}
}
