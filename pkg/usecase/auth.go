package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/model/auth"
	"github.com/secmon-lab/doubleblind/pkg/utils/logging"
	"github.com/secmon-lab/doubleblind/pkg/utils/safe"
)

const googleDiscoveryURL = "https://accounts.google.com/.well-known/openid-configuration"

// AuthUseCaseInterface is implemented by the Google sign-in flow and by the
// development no-auth mode
type AuthUseCaseInterface interface {
	GetAuthURL(ctx context.Context, state string) (string, error)
	HandleCallback(ctx context.Context, code string) (*auth.Token, error)
	ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error)
	Logout(ctx context.Context, tokenID auth.TokenID) error
	IsNoAuthn() bool
}

type AuthUseCase struct {
	repo          interfaces.Repository
	clientID      string
	clientSecret  string
	callbackURL   string
	allowedEmails map[string]struct{}
	discoveryURL  string
	httpClient    *http.Client
	cache         *sessionCache
}

var _ AuthUseCaseInterface = &AuthUseCase{}

// AuthOption is a functional option for AuthUseCase
type AuthOption func(*AuthUseCase)

// WithAllowedEmails restricts sign-in to the given addresses. Matching is
// case-insensitive. An empty list lets nobody in.
func WithAllowedEmails(emails []string) AuthOption {
	return func(uc *AuthUseCase) {
		for _, e := range emails {
			if e = normalizeEmail(e); e != "" {
				uc.allowedEmails[e] = struct{}{}
			}
		}
	}
}

// WithDiscoveryURL replaces the OpenID configuration endpoint
func WithDiscoveryURL(u string) AuthOption {
	return func(uc *AuthUseCase) {
		uc.discoveryURL = u
	}
}

// WithHTTPClient replaces the client used for provider calls
func WithHTTPClient(client *http.Client) AuthOption {
	return func(uc *AuthUseCase) {
		uc.httpClient = client
	}
}

func NewAuthUseCase(repo interfaces.Repository, clientID, clientSecret, callbackURL string, options ...AuthOption) *AuthUseCase {
	uc := &AuthUseCase{
		repo:          repo,
		clientID:      clientID,
		clientSecret:  clientSecret,
		callbackURL:   callbackURL,
		allowedEmails: make(map[string]struct{}),
		discoveryURL:  googleDiscoveryURL,
		httpClient:    http.DefaultClient,
		cache:         newSessionCache(),
	}

	for _, opt := range options {
		opt(uc)
	}

	return uc
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsAllowed reports whether email is on the allow-list
func (uc *AuthUseCase) IsAllowed(email string) bool {
	_, ok := uc.allowedEmails[normalizeEmail(email)]
	return ok
}

// OpenIDConfiguration is the subset of the discovery document used here
type OpenIDConfiguration struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	JWKSURI               string `json:"jwks_uri"`
}

// GetAuthURL returns the provider's authorization URL
func (uc *AuthUseCase) GetAuthURL(ctx context.Context, state string) (string, error) {
	config, err := uc.getOpenIDConfiguration(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to get OpenID configuration")
	}

	params := url.Values{}
	params.Set("client_id", uc.clientID)
	params.Set("scope", "openid email profile")
	params.Set("redirect_uri", uc.callbackURL)
	params.Set("response_type", "code")
	params.Set("state", state)
	params.Set("prompt", "select_account")

	return config.AuthorizationEndpoint + "?" + params.Encode(), nil
}

// IsNoAuthn returns false for regular AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}

// TokenResponse is the provider's answer to the code exchange
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int    `json:"expires_in"`
	IDToken          string `json:"id_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// IDTokenClaims are the identity claims read from a verified ID token
type IDTokenClaims struct {
	Sub           string
	Email         string
	EmailVerified bool
	Name          string
}

// HandleCallback exchanges the authorization code, verifies the ID token and
// issues a session token for an allowed user
func (uc *AuthUseCase) HandleCallback(ctx context.Context, code string) (*auth.Token, error) {
	if code == "" {
		return nil, goerr.Wrap(ErrUnauthorized, "authorization code is missing")
	}

	config, err := uc.getOpenIDConfiguration(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get OpenID configuration")
	}

	tokenResp, err := uc.exchangeCodeForToken(ctx, config, code)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to exchange code for token")
	}
	if tokenResp.Error != "" || tokenResp.IDToken == "" {
		return nil, goerr.Wrap(ErrUnauthorized, "oauth error",
			goerr.V("error", tokenResp.Error),
			goerr.V("description", tokenResp.ErrorDescription))
	}

	claims, err := uc.decodeIDToken(ctx, config, tokenResp.IDToken)
	if err != nil {
		return nil, goerr.Wrap(errorsJoinUnauthorized(err), "failed to verify ID token")
	}

	if !claims.EmailVerified || !uc.IsAllowed(claims.Email) {
		logging.From(ctx).Warn("Sign-in rejected", "email", claims.Email, "email_verified", claims.EmailVerified)
		return nil, goerr.Wrap(ErrForbiddenUser, "email is not allowed", goerr.V("email", claims.Email))
	}

	token := auth.NewToken(claims.Sub, claims.Email, claims.Name)
	if err := uc.repo.PutToken(ctx, token); err != nil {
		return nil, storageError(err, "failed to store token", goerr.V("token_id", token.ID))
	}

	logging.From(ctx).Info("User signed in", "sub", claims.Sub, "token_id", token.ID)
	return token, nil
}

// errorsJoinUnauthorized keeps the verification failure visible in the chain
func errorsJoinUnauthorized(err error) error {
	return errors.Join(ErrUnauthorized, err)
}

func (uc *AuthUseCase) exchangeCodeForToken(ctx context.Context, config *OpenIDConfiguration, code string) (*TokenResponse, error) {
	data := url.Values{}
	data.Set("client_id", uc.clientID)
	data.Set("client_secret", uc.clientSecret)
	data.Set("code", code)
	data.Set("redirect_uri", uc.callbackURL)
	data.Set("grant_type", "authorization_code")

	encodedData := data.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, config.TokenEndpoint, strings.NewReader(encodedData))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := uc.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to make token request")
	}
	defer safe.Drain(ctx, resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read response body")
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, goerr.Wrap(err, "failed to parse token response", goerr.V("status", resp.StatusCode))
	}

	return &tokenResp, nil
}

func (uc *AuthUseCase) getOpenIDConfiguration(ctx context.Context) (*OpenIDConfiguration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uc.discoveryURL, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request")
	}

	resp, err := uc.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch OpenID configuration")
	}
	defer safe.Drain(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("failed to fetch OpenID configuration", goerr.V("status", resp.StatusCode))
	}

	var config OpenIDConfiguration
	if err := json.NewDecoder(resp.Body).Decode(&config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse OpenID configuration")
	}

	return &config, nil
}

// decodeIDToken verifies the ID token signature against the provider's JWKS
// and checks audience, issuer and expiry
func (uc *AuthUseCase) decodeIDToken(ctx context.Context, config *OpenIDConfiguration, idToken string) (*IDTokenClaims, error) {
	keySet, err := jwk.Fetch(ctx, config.JWKSURI, jwk.WithHTTPClient(uc.httpClient))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch public keys", goerr.V("jwks_uri", config.JWKSURI))
	}

	token, err := jwt.Parse([]byte(idToken),
		jwt.WithKeySet(keySet),
		jwt.WithValidate(true),
		jwt.WithAudience(uc.clientID),
		jwt.WithIssuer(config.Issuer),
		jwt.WithAcceptableSkew(10*time.Second),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse or verify JWT token")
	}

	claims := &IDTokenClaims{Sub: token.Subject()}
	if claims.Sub == "" {
		return nil, goerr.New("sub claim not found in token")
	}

	if v, ok := token.Get("email"); ok {
		claims.Email, _ = v.(string)
	}
	if claims.Email == "" {
		return nil, goerr.New("email claim not found in token")
	}
	if v, ok := token.Get("email_verified"); ok {
		claims.EmailVerified, _ = v.(bool)
	}
	if v, ok := token.Get("name"); ok {
		claims.Name, _ = v.(string)
	}

	return claims, nil
}

// ValidateToken checks the session cookie pair. Users removed from the
// allow-list are rejected on their next request after the cache expires.
func (uc *AuthUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	token, err := uc.validateTokenWithCache(ctx, tokenID, tokenSecret)
	if err != nil {
		return nil, err
	}
	if !uc.IsAllowed(token.Email) {
		return nil, goerr.Wrap(ErrForbiddenUser, "email is not allowed", goerr.V("email", token.Email))
	}
	return token, nil
}

// Logout deletes the token
func (uc *AuthUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	if tokenID.Validate() != nil {
		return nil
	}
	uc.cache.evict(tokenID)

	if err := uc.repo.DeleteToken(ctx, tokenID); err != nil {
		return goerr.Wrap(err, "failed to delete token", goerr.V("token_id", tokenID))
	}
	return nil
}
