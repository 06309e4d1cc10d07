package config

import (
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
	"github.com/secmon-lab/doubleblind/pkg/usecase"
	"github.com/secmon-lab/doubleblind/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Auth holds Google sign-in and access control settings
type Auth struct {
	clientID      string
	clientSecret  string
	baseURL       string
	allowedEmails string
	noAuthSub     string
	noAuthEmail   string
	noAuthName    string
}

func (x *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "google-client-id",
			Usage:       "Google OAuth client ID",
			Category:    "Authentication",
			Destination: &x.clientID,
			Sources:     cli.EnvVars("DOUBLEBLIND_GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_ID"),
		},
		&cli.StringFlag{
			Name:        "google-client-secret",
			Usage:       "Google OAuth client secret",
			Category:    "Authentication",
			Destination: &x.clientSecret,
			Sources:     cli.EnvVars("DOUBLEBLIND_GOOGLE_CLIENT_SECRET", "GOOGLE_CLIENT_SECRET"),
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Base URL for the application (e.g., https://your-domain.com)",
			Category:    "Authentication",
			Destination: &x.baseURL,
			Sources:     cli.EnvVars("DOUBLEBLIND_BASE_URL"),
		},
		&cli.StringFlag{
			Name:        "allowed-emails",
			Usage:       "Comma separated list of email addresses allowed to sign in",
			Category:    "Authentication",
			Destination: &x.allowedEmails,
			Sources:     cli.EnvVars("DOUBLEBLIND_ALLOWED_EMAILS", "WHITELIST_EMAILS"),
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and run as the given user ID (development only). Example: --no-auth=dev-user",
			Category:    "Authentication",
			Destination: &x.noAuthSub,
			Sources:     cli.EnvVars("DOUBLEBLIND_NO_AUTH"),
		},
		&cli.StringFlag{
			Name:        "no-auth-email",
			Usage:       "Email reported for the --no-auth user",
			Value:       "dev@localhost",
			Category:    "Authentication",
			Destination: &x.noAuthEmail,
			Sources:     cli.EnvVars("DOUBLEBLIND_NO_AUTH_EMAIL"),
		},
		&cli.StringFlag{
			Name:        "no-auth-name",
			Usage:       "Display name of the --no-auth user",
			Value:       "Developer",
			Category:    "Authentication",
			Destination: &x.noAuthName,
			Sources:     cli.EnvVars("DOUBLEBLIND_NO_AUTH_NAME"),
		},
	}
}

func (x Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("client-id.len", len(x.clientID)),
		slog.Int("client-secret.len", len(x.clientSecret)),
		slog.String("base-url", x.baseURL),
		slog.Int("allowed-emails.count", len(x.AllowedEmails())),
		slog.String("no-auth", x.noAuthSub),
	)
}

// BaseURL returns the public URL of the application
func (x *Auth) BaseURL() string {
	return strings.TrimRight(x.baseURL, "/")
}

// AllowedEmails splits the allow-list flag, dropping blanks
func (x *Auth) AllowedEmails() []string {
	var emails []string
	for _, e := range strings.Split(x.allowedEmails, ",") {
		if e = strings.TrimSpace(e); e != "" {
			emails = append(emails, e)
		}
	}
	return emails
}

// IsNoAuthMode returns true if no-auth mode is enabled
func (x *Auth) IsNoAuthMode() bool {
	return x.noAuthSub != ""
}

// Configure creates the Google sign-in use case, or the fixed identity in no-auth mode
func (x *Auth) Configure(repo interfaces.Repository) (usecase.AuthUseCaseInterface, error) {
	if x.noAuthSub != "" {
		if x.clientID != "" || x.clientSecret != "" {
			return nil, goerr.Wrap(ErrConflictSetting, "--no-auth cannot be combined with Google OAuth credentials")
		}
		logging.Default().Warn("Running in no-auth mode (development only)", "user_id", x.noAuthSub)
		uc, err := usecase.NewNoAuthnUseCase(types.UserID(x.noAuthSub), x.noAuthEmail, x.noAuthName)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid --no-auth user", goerr.V(FlagKey, "no-auth"))
		}
		return uc, nil
	}

	if x.clientID == "" || x.clientSecret == "" || x.baseURL == "" {
		return nil, goerr.Wrap(ErrMissingSetting,
			"Google OAuth configuration is required: set --google-client-id, --google-client-secret and --base-url, or use --no-auth")
	}

	allowed := x.AllowedEmails()
	if len(allowed) == 0 {
		logging.Default().Warn("Allow-list is empty; nobody will be able to sign in")
	}

	callbackURL := x.BaseURL() + "/api/auth/callback"
	return usecase.NewAuthUseCase(repo, x.clientID, x.clientSecret, callbackURL,
		usecase.WithAllowedEmails(allowed)), nil
}
