package stub

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenExpiry  = 24 * time.Hour
	refreshTokenExpiry = 7 * 24 * time.Hour
)

// Claims are the stub's JWT token claims.
type Claims struct {
	UserID      uuid.UUID `json:"sub"`
	Email       string    `json:"email,omitempty"`
	IsSuperuser bool      `json:"is_superuser,omitempty"`
	TokenUse    string    `json:"token_use,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies the stub's HS256 tokens.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a token service with the given signing secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// SignAccessToken creates a 24h access token for the user.
func (s *TokenService) SignAccessToken(u *User) (string, error) {
	return s.sign(u, "access", accessTokenExpiry)
}

// SignRefreshToken creates a 7-day refresh token for the user.
func (s *TokenService) SignRefreshToken(u *User) (string, error) {
	return s.sign(u, "refresh", refreshTokenExpiry)
}

func (s *TokenService) sign(u *User, use string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:      u.ID,
		Email:       u.Email,
		IsSuperuser: u.IsSuperuser,
		TokenUse:    use,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", use, err)
	}
	return signed, nil
}

// VerifyToken verifies and parses a token.
func (s *TokenService) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
