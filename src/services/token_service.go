package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"assetmanager/src/schemas"

	"github.com/go-chi/jwtauth"
)

const tokenType = "Bearer"

var ErrInvalidToken = errors.New("invalid token")

// TokenService signs the HS256 bearer tokens accepted by the API. The user id travels in
// the "sub" claim.
type TokenService struct {
	auth *jwtauth.JWTAuth
	ttl  time.Duration
	now  func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &TokenService{
		auth: jwtauth.New("HS256", []byte(secret), nil),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *TokenService) JWTAuth() *jwtauth.JWTAuth {
	return s.auth
}

func (s *TokenService) Issue(userID int) (*schemas.TokenResponse, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := map[string]interface{}{"sub": strconv.Itoa(userID)}
	jwtauth.SetIssuedAt(claims, now)
	jwtauth.SetExpiry(claims, expiresAt)

	_, token, err := s.auth.Encode(claims)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}
	return &schemas.TokenResponse{
		AccessToken: token,
		TokenType:   tokenType,
		ExpiresAt:   expiresAt.UTC(),
		UserID:      userID,
	}, nil
}

// UserIDFromClaims reads the user id out of verified token claims.
func UserIDFromClaims(claims map[string]interface{}) (int, error) {
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return 0, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	userID, err := strconv.Atoi(sub)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("%w: subject %q", ErrInvalidToken, sub)
	}
	return userID, nil
}
