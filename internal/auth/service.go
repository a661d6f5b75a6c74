// Package auth manages the clinical registry: registration, login,
// the simulated password-recovery flow, and the session slot.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/models"
	"github.com/nutriplan/backend/internal/store"
)

var (
	ErrDuplicateEmail     = errors.New("an account with this email already exists")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrInvalidCredentials = errors.New("invalid email or security passkey")
	ErrEmailNotFound      = errors.New("no account found for this email")
)

// MinPasswordLength is the registration minimum.
const MinPasswordLength = 6

// FormatClinicalID renders the user-facing clinical identifier from
// the account's internal unique key: "NP-" plus 5 uppercase
// alphanumerics.
func FormatClinicalID(internalID string) string {
	compact := strings.ReplaceAll(internalID, "-", "")
	if len(compact) > 5 {
		compact = compact[:5]
	}
	return "NP-" + strings.ToUpper(compact)
}

// Service is the authentication and registry controller.
type Service struct {
	users    *store.UserRepository
	sessions *store.SessionRepository
}

func NewService(users *store.UserRepository, sessions *store.SessionRepository) *Service {
	return &Service{users: users, sessions: sessions}
}

// Register creates a new account and establishes its session. The
// registry is left untouched when any invariant fails.
func (s *Service) Register(ctx context.Context, name, email, password, confirmPassword string) (models.Session, error) {
	normalized := store.NormalizeEmail(email)

	if _, exists, err := s.users.Get(ctx, normalized); err != nil {
		return models.Session{}, err
	} else if exists {
		return models.Session{}, ErrDuplicateEmail
	}
	if password != confirmPassword {
		return models.Session{}, ErrPasswordMismatch
	}
	if len(password) < MinPasswordLength {
		return models.Session{}, ErrPasswordTooShort
	}

	hash, err := HashPassword(password)
	if err != nil {
		return models.Session{}, err
	}

	id := uuid.New().String()
	account := models.UserAccount{
		ID:         id,
		Name:       name,
		Password:   hash,
		ClinicalID: FormatClinicalID(id),
	}
	if err := s.users.Put(ctx, normalized, account); err != nil {
		return models.Session{}, err
	}

	session := models.Session{Email: normalized, Name: name, ClinicalID: account.ClinicalID}
	if err := s.sessions.Put(ctx, session); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

// Login verifies credentials and establishes the session.
func (s *Service) Login(ctx context.Context, email, password string) (models.Session, error) {
	normalized := store.NormalizeEmail(email)
	account, exists, err := s.users.Get(ctx, normalized)
	if err != nil {
		return models.Session{}, err
	}
	if !exists || !CheckPasswordHash(password, account.Password) {
		return models.Session{}, ErrInvalidCredentials
	}

	session := models.Session{Email: normalized, Name: account.Name, ClinicalID: account.ClinicalID}
	if err := s.sessions.Put(ctx, session); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

// RequestPasswordReset starts the simulated recovery flow. No mail is
// sent; the flow only checks that the account exists.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	_, exists, err := s.users.Get(ctx, store.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if !exists {
		return ErrEmailNotFound
	}
	return nil
}

// CompletePasswordReset overwrites the stored password. The account's
// existence was verified by RequestPasswordReset; an unknown email
// here is a no-op.
func (s *Service) CompletePasswordReset(ctx context.Context, email, password, confirmPassword string) error {
	if password != confirmPassword {
		return ErrPasswordMismatch
	}
	normalized := store.NormalizeEmail(email)
	account, exists, err := s.users.Get(ctx, normalized)
	if err != nil || !exists {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	account.Password = hash
	return s.users.Put(ctx, normalized, account)
}

// Logout clears the session slot; it is idempotent.
func (s *Service) Logout(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}
