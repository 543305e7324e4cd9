package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/erp-service/internal/auth"
	"github.com/spec-kit/erp-service/internal/config"
	"github.com/spec-kit/erp-service/internal/domain"
	"github.com/spec-kit/erp-service/internal/repository"
	apperrors "github.com/spec-kit/erp-service/pkg/util"
)

var errInvalidCredentials = apperrors.NewUnauthorized("invalid credentials")

// TokenRevoker remembers logged-out tokens.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// AuthService coordinates login flows and account administration.
type AuthService struct {
	users      repository.UserRepository
	employees  repository.EmployeeRepository
	tokenMgr   *auth.TokenManager
	revoker    TokenRevoker
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	EmployeeRepo repository.EmployeeRepository
	TokenManager *auth.TokenManager
	Revoker      TokenRevoker
	Logger       *zap.Logger
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// UserInput describes account creation and update payloads.
type UserInput struct {
	Name       string
	Email      string
	Password   string
	Role       domain.Role
	Status     domain.UserStatus
	EmployeeID *string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		employees:  deps.EmployeeRepo,
		tokenMgr:   deps.TokenManager,
		revoker:    deps.Revoker,
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
	}
}

// Login authenticates an account by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, errInvalidCredentials
	}
	if user.Status != domain.UserStatusActive {
		return nil, apperrors.NewForbidden("account suspended")
	}

	token, meta, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: meta.ExpiresAt, User: user}, nil
}

// Logout revokes the presented token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, token *domain.AccessToken) error {
	if token == nil {
		return apperrors.NewUnauthorized("missing token")
	}
	if s.revoker == nil {
		return apperrors.NewDomainError("UNAVAILABLE", "token revocation unavailable", 503, nil)
	}
	return s.revoker.Revoke(ctx, token.ID, token.ExpiresAt)
}

// Me returns the current account.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return notFound(err, "user")
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return errInvalidCredentials
	}
	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

// EnsureBootstrapAdmin creates the first ADMIN account when it does not exist yet.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	user := &domain.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}
	s.logger.Info("bootstrap admin created", zap.String("email", email))
	return nil
}

// ListUsers lists accounts.
func (s *AuthService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	return s.users.List(ctx, filter)
}

// GetUser loads one account.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.Me(ctx, id)
}

// CreateUser creates an account.
func (s *AuthService) CreateUser(ctx context.Context, input UserInput) (*domain.User, error) {
	if err := required(map[string]string{"name": input.Name, "email": input.Email, "password": input.Password}); err != nil {
		return nil, err
	}
	if input.Role == "" {
		input.Role = domain.RoleEmployee
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}
	if err := s.checkEmployee(ctx, input.EmployeeID); err != nil {
		return nil, err
	}
	hash, err := s.hash(input.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        normalizeEmail(input.Email),
		PasswordHash: hash,
		Role:         input.Role,
		Status:       domain.UserStatusActive,
		EmployeeID:   optionalID(input.EmployeeID),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser applies non-empty fields of input to the account.
func (s *AuthService) UpdateUser(ctx context.Context, id string, input UserInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
	}
	if email := normalizeEmail(input.Email); email != "" {
		user.Email = email
	}
	if input.Role != "" {
		if !input.Role.Valid() {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
		}
		user.Role = input.Role
	}
	if input.Status != "" {
		if input.Status != domain.UserStatusActive && input.Status != domain.UserStatusSuspended {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": input.Status})
		}
		user.Status = input.Status
	}
	if input.EmployeeID != nil {
		if err := s.checkEmployee(ctx, input.EmployeeID); err != nil {
			return nil, err
		}
		user.EmployeeID = optionalID(input.EmployeeID)
	}
	if input.Password != "" {
		hash, err := s.hash(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) checkEmployee(ctx context.Context, employeeID *string) error {
	id := optionalID(employeeID)
	if id == nil || s.employees == nil {
		return nil
	}
	if _, err := s.employees.GetByID(ctx, *id); err != nil {
		return notFound(err, "employee")
	}
	return nil
}

func (s *AuthService) hash(password string) (string, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if errors.Is(err, auth.ErrPasswordTooShort) {
		return "", apperrors.NewValidationError(err.Error(), map[string]any{"min_length": auth.MinPasswordLength})
	}
	return hash, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
