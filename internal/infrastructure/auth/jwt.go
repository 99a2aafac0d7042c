package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"authrelay/internal/domain/user"
	"authrelay/internal/shared/config"
	sharederrors "authrelay/internal/shared/errors"
)

// Claims is the bearer token payload issued to authenticated users.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secret         []byte
	interactiveTTL time.Duration
	serverTTL      time.Duration
}

func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{
		secret:         []byte(cfg.Secret),
		interactiveTTL: time.Duration(cfg.InteractiveDays) * 24 * time.Hour,
		serverTTL:      time.Duration(cfg.ServerToServerHr) * time.Hour,
	}
}

// IssueInteractive signs a token for a browser login.
func (s *JWTService) IssueInteractive(u *user.User) (string, error) {
	return s.issue(u, s.interactiveTTL)
}

// IssueServer signs a shorter-lived token for server-to-server
// identity assertions.
func (s *JWTService) IssueServer(u *user.User) (string, error) {
	return s.issue(u, s.serverTTL)
}

func (s *JWTService) issue(u *user.User, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		UserID:   u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Provider: u.Provider,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a bearer token. Expired tokens and
// otherwise unusable tokens surface as distinct auth errors so the
// caller can report them differently.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, sharederrors.NewTokenExpiredError()
		}
		return nil, sharederrors.NewTokenMalformedError()
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, sharederrors.NewTokenMalformedError()
	}

	return claims, nil
}
