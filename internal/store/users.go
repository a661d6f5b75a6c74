package store

import (
	"context"
	"strings"

	"github.com/nutriplan/backend/internal/models"
)

const registryKey = "nutriplan_clinical_registry"

// UserRepository persists the clinical registry: a single JSON map of
// lower-cased email to account. All mutations are whole-map
// read-modify-write, matching the registry's storage contract.
type UserRepository struct {
	rs RecordStore
}

func NewUserRepository(rs RecordStore) *UserRepository {
	return &UserRepository{rs: rs}
}

// NormalizeEmail lower-cases and trims an email for use as a registry key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Registry returns the full email->account map, empty when unset.
func (r *UserRepository) Registry(ctx context.Context) (map[string]models.UserAccount, error) {
	registry := make(map[string]models.UserAccount)
	if _, err := loadJSON(ctx, r.rs, registryKey, &registry); err != nil {
		return nil, err
	}
	return registry, nil
}

// Get looks up one account by normalized email.
func (r *UserRepository) Get(ctx context.Context, email string) (models.UserAccount, bool, error) {
	registry, err := r.Registry(ctx)
	if err != nil {
		return models.UserAccount{}, false, err
	}
	account, ok := registry[NormalizeEmail(email)]
	return account, ok, nil
}

// Put writes one account into the registry and persists the whole map.
func (r *UserRepository) Put(ctx context.Context, email string, account models.UserAccount) error {
	registry, err := r.Registry(ctx)
	if err != nil {
		return err
	}
	registry[NormalizeEmail(email)] = account
	return saveJSON(ctx, r.rs, registryKey, registry)
}
