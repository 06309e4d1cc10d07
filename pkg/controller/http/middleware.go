package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/model/auth"
	"github.com/secmon-lab/doubleblind/pkg/usecase"
)

const (
	tokenIDCookie     = "token_id"
	tokenSecretCookie = "token_secret"
	oauthStateCookie  = "oauth_state"
)

// authMiddleware resolves the session cookies into a token on the request
// context. There is no anonymous fallback: without a valid session every
// request is rejected.
func authMiddleware(authUC AuthUseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authUC == nil {
				writeError(r.Context(), w, goerr.Wrap(usecase.ErrUnauthorized, "authentication is not configured"))
				return
			}

			token, err := tokenFromRequest(r, authUC)
			if err != nil {
				writeError(r.Context(), w, err)
				return
			}

			ctx := auth.ContextWithToken(r.Context(), token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// tokenFromRequest validates the cookie pair. In no-auth mode the configured
// identity is returned regardless of cookies.
func tokenFromRequest(r *http.Request, authUC AuthUseCase) (*auth.Token, error) {
	if authUC.IsNoAuthn() {
		return authUC.ValidateToken(r.Context(), "", "")
	}

	idCookie, err := r.Cookie(tokenIDCookie)
	if err != nil {
		return nil, goerr.Wrap(usecase.ErrUnauthorized, "authentication required")
	}
	secretCookie, err := r.Cookie(tokenSecretCookie)
	if err != nil {
		return nil, goerr.Wrap(usecase.ErrUnauthorized, "authentication required")
	}

	return authUC.ValidateToken(r.Context(), auth.TokenID(idCookie.Value), auth.TokenSecret(secretCookie.Value))
}
