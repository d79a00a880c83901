package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Lawrence9908/ecommerce-backend-api/logger"
	"github.com/Lawrence9908/ecommerce-backend-api/model"
	"github.com/Lawrence9908/ecommerce-backend-api/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService handles signup, login, logout and token refresh.
type AuthService struct {
	userRepo   repository.IUserRepository
	tokens     *TokenService
	bcryptCost int

	dummyOnce sync.Once
	dummy     string
}

func NewAuthService(userRepo repository.IUserRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// WithBcryptCost overrides the hashing cost. Values outside bcrypt's range are ignored.
func (s *AuthService) WithBcryptCost(cost int) *AuthService {
	if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
		s.bcryptCost = cost
	}
	return s
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash compares in constant time via bcrypt.
func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Signup creates a customer account and starts its session.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (*model.User, *model.TokenPair, error) {
	email := normalizeEmail(req.Email)

	_, err := s.userRepo.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, nil, ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, fmt.Errorf("could not look up user: %w", err)
	}

	hashed, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("could not hash password: %w", err)
	}

	user := &model.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashed,
		Role:     model.RoleCustomer,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, nil, ErrUserExists
		}
		return nil, nil, fmt.Errorf("could not create user: %w", err)
	}

	tokens, err := s.startSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	logger.Log.WithField("user_id", user.ID).Info("User signed up")
	return user, tokens, nil
}

// Login checks the credentials and starts a new session. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.User, *model.TokenPair, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Same bcrypt work as a wrong password so timing does not reveal registered emails.
			s.CheckPasswordHash(req.Password, s.dummyHash())
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("could not look up user: %w", err)
	}

	if !s.CheckPasswordHash(req.Password, user.Password) {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.startSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	logger.Log.WithField("user_id", user.ID).Info("User logged in")
	return user, tokens, nil
}

// Logout revokes the session the refresh token belongs to. Only the token
// currently stored for its user can end that session; missing, forged or
// superseded tokens have nothing to revoke and are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	userID, err := s.tokens.VerifyRefresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			logger.Log.WithError(err).Info("Logout with an unusable refresh token")
			return nil
		}
		return err
	}
	if err := s.tokens.Revoke(ctx, userID); err != nil {
		return err
	}
	logger.Log.WithField("user_id", userID).Info("User logged out")
	return nil
}

// Refresh mints a new access token for a refresh token that matches the
// stored session. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.VerifyRefresh(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	return s.tokens.IssueAccess(userID)
}

// Authenticate resolves an access token to its user, password hash removed.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*model.User, error) {
	userID, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not load user: %w", err)
	}
	user.Password = ""
	return user, nil
}

func (s *AuthService) startSession(ctx context.Context, userID string) (*model.TokenPair, error) {
	tokens, err := s.tokens.Issue(userID)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.PersistRefresh(ctx, userID, tokens.RefreshToken); err != nil {
		return nil, err
	}
	return tokens, nil
}

// dummyHash is compared against on unknown emails. It is hashed at the
// configured cost, lazily so WithBcryptCost is honoured.
func (s *AuthService) dummyHash() string {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.bcryptCost)
		if err != nil {
			logger.Log.WithError(err).Error("Failed to prepare dummy password hash")
			return
		}
		s.dummy = string(hash)
	})
	return s.dummy
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
