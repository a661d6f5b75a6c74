package auth

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/nutriplan/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *store.UserRepository, *store.SessionRepository) {
	t.Helper()
	db, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	users := store.NewUserRepository(db)
	sessions := store.NewSessionRepository(db)
	return NewService(users, sessions), users, sessions
}

func TestRegisterIssuesClinicalID(t *testing.T) {
	svc, users, sessions := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, "Dr. Who", "Dr.Who@Example.com", "Tardis12", "Tardis12")
	require.NoError(t, err)

	assert.Equal(t, "dr.who@example.com", session.Email)
	assert.Equal(t, "Dr. Who", session.Name)
	assert.Regexp(t, regexp.MustCompile(`^NP-[A-Z0-9]{5}$`), session.ClinicalID)

	account, found, err := users.Get(ctx, "dr.who@example.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, session.ClinicalID, account.ClinicalID)
	// The passkey is stored hashed, never verbatim.
	assert.NotEqual(t, "Tardis12", account.Password)
	assert.True(t, CheckPasswordHash("Tardis12", account.Password))

	stored, found, err := sessions.Get(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, session, stored)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, users, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "First", "a@b.c", "secret1", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Second", "A@B.C", "other99", "other99")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	registry, err := users.Registry(ctx)
	require.NoError(t, err)
	assert.Len(t, registry, 1)
	assert.Equal(t, "First", registry["a@b.c"].Name)
}

func TestRegisterValidationOrder(t *testing.T) {
	svc, users, _ := newTestService(t)
	ctx := context.Background()

	// Mismatch is reported before length.
	_, err := svc.Register(ctx, "A", "a@b.c", "abc", "abcdef")
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	_, err = svc.Register(ctx, "A", "a@b.c", "abc", "abc")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	// Failed attempts leave the registry untouched.
	registry, err := users.Registry(ctx)
	require.NoError(t, err)
	assert.Empty(t, registry)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Dr. Who", "dr.who@example.com", "Tardis12", "Tardis12")
	require.NoError(t, err)

	session, err := svc.Login(ctx, "DR.WHO@example.com", "Tardis12")
	require.NoError(t, err)
	assert.Equal(t, "dr.who@example.com", session.Email)

	_, err = svc.Login(ctx, "dr.who@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "Tardis12")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Dr. Who", "dr.who@example.com", "Tardis12", "Tardis12")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.RequestPasswordReset(ctx, "nobody@example.com"), ErrEmailNotFound)
	require.NoError(t, svc.RequestPasswordReset(ctx, "dr.who@example.com"))

	err = svc.CompletePasswordReset(ctx, "dr.who@example.com", "NewPass1", "Different")
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	require.NoError(t, svc.CompletePasswordReset(ctx, "dr.who@example.com", "NewPass1", "NewPass1"))

	_, err = svc.Login(ctx, "dr.who@example.com", "Tardis12")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "dr.who@example.com", "NewPass1")
	assert.NoError(t, err)

	// Resetting an unknown email is a silent no-op.
	assert.NoError(t, svc.CompletePasswordReset(ctx, "nobody@example.com", "NewPass1", "NewPass1"))
}

func TestLogoutIdempotent(t *testing.T) {
	svc, _, sessions := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "A", "a@b.c", "secret1", "secret1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx))
	_, found, err := sessions.Get(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, svc.Logout(ctx))
}

func TestFormatClinicalID(t *testing.T) {
	assert.Equal(t, "NP-ABC12", FormatClinicalID("abc12-def-456"))
	assert.Equal(t, "NP-AB", FormatClinicalID("ab"))
}
