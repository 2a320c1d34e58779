package session

import (
	"context"
	"fmt"

	"github.com/cristalhq/jwt/v4"

	"github.com/avstrong/holidaze/internal/booking"
)

type tokenClaims struct {
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	IssuedAt *jwt.NumericDate `json:"iat,omitempty"`
}

// TokenInfo decodes the stored token's claims without verifying the
// signature; only the remote API can do that. Returns nil when logged out.
func (s *Store) TokenInfo(ctx context.Context) (*booking.TokenInfo, error) {
	raw, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}

	if raw == "" {
		return nil, nil //nolint:nilnil
	}

	token, err := jwt.ParseNoVerify([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	var claims tokenClaims
	if err := token.DecodeClaims(&claims); err != nil {
		return nil, fmt.Errorf("decode token claims: %w", err)
	}

	info := &booking.TokenInfo{ //nolint:exhaustruct
		Name:  claims.Name,
		Email: claims.Email,
	}

	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}

	return info, nil
}
