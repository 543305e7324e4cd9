package service

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/erp-service/internal/auth"
	"github.com/spec-kit/erp-service/internal/config"
	"github.com/spec-kit/erp-service/internal/domain"
)

type recordingRevoker struct {
	revoked map[string]time.Time
}

func (r *recordingRevoker) Revoke(_ context.Context, id string, exp time.Time) error {
	r.revoked[id] = exp
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUsers, *recordingRevoker) {
	t.Helper()
	users := newFakeUsers()
	revoker := &recordingRevoker{revoked: map[string]time.Time{}}
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.January, 8, 9, 0, 0, 0, time.UTC))
	svc := NewAuthService(config.AuthConfig{BcryptCost: bcrypt.MinCost}, AuthDependencies{
		UserRepo:     users,
		EmployeeRepo: newFakeEmployees(domain.Employee{ID: "emp-1"}),
		TokenManager: auth.NewTokenManager("test-secret", time.Hour, clock),
		Revoker:      revoker,
	})
	return svc, users, revoker
}

func TestLoginAndLogout(t *testing.T) {
	svc, _, revoker := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, UserInput{Name: "Ada", Email: " Ada@Example.com ", Password: "correct-horse", Role: domain.RoleHR, EmployeeID: strPtr("emp-1")})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	_, err = svc.Login(ctx, "ada@example.com", "wrong-password")
	assert.Equal(t, "UNAUTHORIZED", code(t, err))
	_, err = svc.Login(ctx, "nobody@example.com", "whatever1")
	assert.Equal(t, "UNAUTHORIZED", code(t, err))

	result, err := svc.Login(ctx, "ADA@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, time.Date(2024, time.January, 8, 10, 0, 0, 0, time.UTC), result.ExpiresAt)

	token, err := svc.TokenManager().ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleHR, token.Role)

	require.NoError(t, svc.Logout(ctx, token))
	assert.True(t, result.ExpiresAt.Equal(revoker.revoked[token.ID]))
}

func TestLoginRejectsSuspended(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, UserInput{Name: "Bob", Email: "bob@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, user.Role)

	_, err = svc.UpdateUser(ctx, user.ID, UserInput{Status: domain.UserStatusSuspended})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "bob@example.com", "password1")
	assert.Equal(t, "FORBIDDEN", code(t, err))
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()
	user, err := svc.CreateUser(ctx, UserInput{Name: "C", Email: "c@example.com", Password: "password1"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, "not-it-at-all", "password2")
	assert.Equal(t, "UNAUTHORIZED", code(t, err))

	err = svc.ChangePassword(ctx, user.ID, "password1", "short")
	assert.Equal(t, "VALIDATION_FAILED", code(t, err))

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "password1", "password2"))
	_, err = svc.Login(ctx, "c@example.com", "password2")
	require.NoError(t, err)
}

func TestCreateUserValidation(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, UserInput{Email: "x@example.com", Password: "password1"})
	assert.Equal(t, "VALIDATION_FAILED", code(t, err))

	_, err = svc.CreateUser(ctx, UserInput{Name: "X", Email: "x@example.com", Password: "password1", Role: "ROOT"})
	assert.Equal(t, "VALIDATION_FAILED", code(t, err))

	_, err = svc.CreateUser(ctx, UserInput{Name: "X", Email: "x@example.com", Password: "password1", EmployeeID: strPtr("emp-404")})
	assert.Equal(t, "NOT_FOUND", code(t, err))
}

func TestEnsureBootstrapAdminIsIdempotent(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "", ""))
	assert.Empty(t, users.byID)

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "admin@example.com", "admin-pass"))
	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "admin@example.com", "admin-pass"))
	require.Len(t, users.byID, 1)
	for _, u := range users.byID {
		assert.Equal(t, domain.RoleAdmin, u.Role)
	}
}
