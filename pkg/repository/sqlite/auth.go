package sqlite

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/model/auth"
	"gorm.io/gorm"
)

func (s *SQLite) PutToken(ctx context.Context, token *auth.Token) error {
	if err := token.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token")
	}

	row := &tokenRow{
		ID:        token.ID.String(),
		Secret:    token.Secret.String(),
		Sub:       token.Sub,
		Email:     token.Email,
		Name:      token.Name,
		ExpiresAt: token.ExpiresAt,
		CreatedAt: token.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Save(row).Error; err != nil {
		return goerr.Wrap(err, "failed to put token")
	}
	return nil
}

func (s *SQLite) GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error) {
	if err := tokenID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid token ID")
	}

	var row tokenRow
	if err := s.db.WithContext(ctx).Where("id = ?", tokenID.String()).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "token not found", goerr.V("token_id", tokenID))
		}
		return nil, goerr.Wrap(err, "failed to get token")
	}

	return &auth.Token{
		ID:        auth.TokenID(row.ID),
		Secret:    auth.TokenSecret(row.Secret),
		Sub:       row.Sub,
		Email:     row.Email,
		Name:      row.Name,
		ExpiresAt: row.ExpiresAt,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (s *SQLite) DeleteToken(ctx context.Context, tokenID auth.TokenID) error {
	if err := tokenID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token ID")
	}

	result := s.db.WithContext(ctx).Where("id = ?", tokenID.String()).Delete(&tokenRow{})
	if result.Error != nil {
		return goerr.Wrap(result.Error, "failed to delete token")
	}
	if result.RowsAffected == 0 {
		return goerr.Wrap(interfaces.ErrNotFound, "token not found", goerr.V("token_id", tokenID))
	}
	return nil
}
