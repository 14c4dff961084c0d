package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"academy/backend/models"
	"academy/backend/services/progression"
)

// UserRepository loads users and persists their progress ledgers.
type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("user %d", id))
	}
	return &user, nil
}

// SaveLedger writes the ledger back guarded by the version the user was
// loaded with. A stale version means another submission got there first;
// the caller reloads and retries.
func (r *UserRepository) SaveLedger(ctx context.Context, user *models.User) error {
	res := r.DB.WithContext(ctx).
		Model(user).
		Where("ledger_version = ?", user.LedgerVersion).
		Select("Ledger", "LedgerVersion").
		Updates(models.User{Ledger: user.Ledger, LedgerVersion: user.LedgerVersion + 1})
	if res.Error != nil {
		return fmt.Errorf("save ledger for user %d: %w: %v", user.ID, progression.ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("save ledger for user %d: %w", user.ID, progression.ErrConflict)
	}
	user.LedgerVersion++
	return nil
}
