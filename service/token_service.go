package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lawrence9908/ecommerce-backend-api/cache"
	"github.com/Lawrence9908/ecommerce-backend-api/logger"
	"github.com/Lawrence9908/ecommerce-backend-api/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrInvalidToken)
)

// TokenConfig holds the signing secrets and lifetimes of both token kinds.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// TokenService issues and verifies access/refresh tokens. A user has at most
// one live refresh token: the one stored in the cache under
// refresh_token:<userID>. Issuing a new one replaces it, which ends any
// earlier session of that user.
type TokenService struct {
	cache ICacheClient
	cfg   TokenConfig
	now   func() time.Time
}

func NewTokenService(cacheClient ICacheClient, cfg TokenConfig) *TokenService {
	return &TokenService{
		cache: cacheClient,
		cfg:   cfg,
		now:   time.Now,
	}
}

// Issue signs a fresh access/refresh pair for userID. It has no side effects;
// call PersistRefresh to make the refresh token usable.
func (s *TokenService) Issue(userID string) (*model.TokenPair, error) {
	access, err := s.IssueAccess(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(userID, s.cfg.RefreshSecret, s.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueAccess signs a new access token only.
func (s *TokenService) IssueAccess(userID string) (string, error) {
	return s.sign(userID, s.cfg.AccessSecret, s.cfg.AccessTTL)
}

// PersistRefresh stores refreshToken as the only valid one for userID.
func (s *TokenService) PersistRefresh(ctx context.Context, userID, refreshToken string) error {
	if err := s.cache.Set(ctx, cache.RefreshTokenKey(userID), refreshToken, s.cfg.RefreshTTL).Err(); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// VerifyAccess validates signature and expiry and returns the embedded user id.
func (s *TokenService) VerifyAccess(token string) (string, error) {
	return s.parse(token, s.cfg.AccessSecret)
}

// VerifyRefresh validates the token and additionally requires it to be the
// one currently stored for its user.
func (s *TokenService) VerifyRefresh(ctx context.Context, token string) (string, error) {
	userID, err := s.parse(token, s.cfg.RefreshSecret)
	if err != nil {
		return "", err
	}

	stored, err := s.cache.Get(ctx, cache.RefreshTokenKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to read refresh token: %w", err)
	}
	if stored != token {
		logger.Log.WithField("user_id", userID).Warn("Refresh token does not match the stored session")
		return "", ErrInvalidToken
	}
	return userID, nil
}

// Revoke deletes the stored refresh token of userID.
func (s *TokenService) Revoke(ctx context.Context, userID string) error {
	if err := s.cache.Del(ctx, cache.RefreshTokenKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (s *TokenService) sign(userID, secret string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &model.AppClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}
	return tokenString, nil
}

func (s *TokenService) parse(tokenString, secret string) (string, error) {
	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}
	if !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
