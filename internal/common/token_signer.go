package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PilotToken is the decoded form of a bearer token
type PilotToken struct {
	PilotID   string
	Roles     []string
	TokenID   string
	ExpiresAt time.Time
}

type pilotClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenSignerService issues and validates pilot bearer tokens.
// Token issuance belongs to the login flow; the API only validates.
type TokenSignerService struct {
	secretKey []byte
	redis     *redis.Client // optional, enables revocation
}

// NewTokenSignerService creates a new token signer. redis may be nil.
func NewTokenSignerService(secretKey []byte, redis *redis.Client) *TokenSignerService {
	return &TokenSignerService{
		secretKey: secretKey,
		redis:     redis,
	}
}

// IssueToken signs a token for the given pilot and roles
func (s *TokenSignerService) IssueToken(pilotID string, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := pilotClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   pilotID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken parses a bearer token and checks signature, expiry and revocation
func (s *TokenSignerService) ValidateToken(ctx context.Context, tokenString string) (*PilotToken, error) {
	claims := &pilotClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.Subject == "" {
		return nil, errors.New("missing sub claim")
	}

	revoked, err := s.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, errors.New("token revoked")
	}

	return &PilotToken{
		PilotID:   claims.Subject,
		Roles:     claims.Roles,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// RevokeToken blocks a token until it would have expired anyway
func (s *TokenSignerService) RevokeToken(ctx context.Context, token *PilotToken) error {
	if s.redis == nil {
		return errors.New("token revocation requires redis")
	}
	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, "revoked_token:"+token.TokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsTokenRevoked checks the revocation list. Without redis nothing is revoked.
func (s *TokenSignerService) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.redis == nil || tokenID == "" {
		return false, nil
	}
	result, err := s.redis.Get(ctx, "revoked_token:"+tokenID).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return result == "1", nil
}
