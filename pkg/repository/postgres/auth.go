package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/model/auth"
)

func (p *Postgres) PutToken(ctx context.Context, token *auth.Token) error {
	if err := token.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token")
	}

	_, err := p.pool.Exec(ctx, `
		INSERT INTO tokens (id, secret, sub, email, name, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			secret = EXCLUDED.secret,
			sub = EXCLUDED.sub,
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			expires_at = EXCLUDED.expires_at`,
		token.ID.String(), token.Secret.String(), token.Sub, token.Email, token.Name, token.ExpiresAt, token.CreatedAt)
	if err != nil {
		return goerr.Wrap(err, "failed to put token")
	}
	return nil
}

func (p *Postgres) GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error) {
	if err := tokenID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid token ID")
	}

	var (
		token      auth.Token
		id, secret string
	)
	err := p.pool.QueryRow(ctx,
		`SELECT id, secret, sub, email, name, expires_at, created_at FROM tokens WHERE id = $1`,
		tokenID.String()).
		Scan(&id, &secret, &token.Sub, &token.Email, &token.Name, &token.ExpiresAt, &token.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "token not found", goerr.V("token_id", tokenID))
		}
		return nil, goerr.Wrap(err, "failed to get token")
	}

	token.ID = auth.TokenID(id)
	token.Secret = auth.TokenSecret(secret)
	return &token, nil
}

func (p *Postgres) DeleteToken(ctx context.Context, tokenID auth.TokenID) error {
	if err := tokenID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token ID")
	}

	tag, err := p.pool.Exec(ctx, `DELETE FROM tokens WHERE id = $1`, tokenID.String())
	if err != nil {
		return goerr.Wrap(err, "failed to delete token")
	}
	if tag.RowsAffected() == 0 {
		return goerr.Wrap(interfaces.ErrNotFound, "token not found", goerr.V("token_id", tokenID))
	}
	return nil
}
