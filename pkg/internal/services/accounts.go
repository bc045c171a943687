package services

import (
	"context"
	"fmt"

	"git.solsynth.dev/hypernet/announcements/pkg/internal/database"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// PurgeAccount drops every subscription and preference stored for the owner.
func (v *AccountService) PurgeAccount(ctx context.Context, owner string) error {
	if len(owner) == 0 {
		return fmt.Errorf("owner is required")
	}

	err := v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range database.AutoMaintainRange {
			if err := tx.Where("owner = ?", owner).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("unable to purge account: %v", err)
	}

	log.Info().Str("user", owner).Msg("Purged account subscriptions and preferences.")
	return nil
}
