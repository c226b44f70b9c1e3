package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// ErrInvalidCredentials is returned for unknown emails and wrong passwords alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginResult is a minted token plus the account it was minted for.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates login and account creation.
type AuthService struct {
	users      repository.UserRepository
	codec      *auth.TokenCodec
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, codec *auth.TokenCodec, bcryptCost int, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: users, codec: codec, bcryptCost: bcryptCost, logger: logger}
}

// Login verifies credentials and mints a token whose subject is the user id.
// Neither the submitted password nor the stored hash is ever logged.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			auth.ConsumePasswordCheck(password)
			s.logger.Info("login rejected", zap.String("reason", "unknown_account"))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.logger.Info("login rejected", zap.Int64("user_id", user.ID), zap.String("reason", "bad_credentials"))
		return nil, ErrInvalidCredentials
	}

	token, claims, err := s.codec.Issue(strconv.FormatInt(user.ID, 10), user.Role)
	if err != nil {
		return nil, err
	}
	s.logger.Info("login succeeded", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return &LoginResult{User: user, Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// CreateUser registers an account with a bcrypt hash of the password.
func (s *AuthService) CreateUser(ctx context.Context, email, password string, role domain.Role) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.NewBadRequest("Email and password required")
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = domain.RoleUser
	}
	user := &domain.User{Email: email, PasswordHash: hash, Role: role}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user created", zap.Int64("user_id", user.ID), zap.String("role", string(role)))
	return user, nil
}
