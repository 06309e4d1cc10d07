package http

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/model/auth"
	"github.com/secmon-lab/doubleblind/pkg/usecase"
)

type AuthUseCase = usecase.AuthUseCaseInterface

type userMeResponse struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// generateState generates a random state parameter for OAuth
func generateState() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", goerr.Wrap(err, "failed to generate random state")
	}
	return hex.EncodeToString(bytes), nil
}

func setCookie(w http.ResponseWriter, r *http.Request, name, value string, expires time.Time, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
		MaxAge:   maxAge,
	})
}

func clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	setCookie(w, r, name, "", time.Time{}, -1)
}

// authLoginHandler handles the OAuth login initiation
func authLoginHandler(authUC AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// For NoAuthn mode, redirect to home
		if authUC.IsNoAuthn() {
			http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
			return
		}

		// Generate state parameter to prevent CSRF
		state, err := generateState()
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}

		authURL, err := authUC.GetAuthURL(r.Context(), state)
		if err != nil {
			writeError(r.Context(), w, goerr.Wrap(err, "failed to build authorization URL"))
			return
		}

		setCookie(w, r, oauthStateCookie, state, time.Time{}, 600)
		http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
	}
}

// authCallbackHandler handles the OAuth callback
func authCallbackHandler(authUC AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stateCookie, err := r.Cookie(oauthStateCookie)
		if err != nil {
			writeError(r.Context(), w, goerr.Wrap(usecase.ErrUnauthorized, "state cookie is missing"))
			return
		}

		state := r.URL.Query().Get("state")
		if state == "" || state != stateCookie.Value {
			writeError(r.Context(), w, goerr.Wrap(usecase.ErrUnauthorized, "invalid state parameter"))
			return
		}
		clearCookie(w, r, oauthStateCookie)

		token, err := authUC.HandleCallback(r.Context(), r.URL.Query().Get("code"))
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}

		setCookie(w, r, tokenIDCookie, token.ID.String(), token.ExpiresAt, 0)
		setCookie(w, r, tokenSecretCookie, token.Secret.String(), token.ExpiresAt, 0)

		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
	}
}

// authLogoutHandler handles user logout
func authLogoutHandler(authUC AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(tokenIDCookie); err == nil {
			if err := authUC.Logout(r.Context(), auth.TokenID(cookie.Value)); err != nil {
				writeError(r.Context(), w, goerr.Wrap(err, "failed to logout"))
				return
			}
		}

		clearCookie(w, r, tokenIDCookie)
		clearCookie(w, r, tokenSecretCookie)

		writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}

// authMeHandler returns current user information
func authMeHandler(authUC AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := tokenFromRequest(r, authUC)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, userMeResponse{
			Sub:   token.Sub,
			Email: token.Email,
			Name:  token.Name,
		})
	}
}
