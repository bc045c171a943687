package database

import (
	"git.solsynth.dev/hypernet/announcements/pkg/internal/models"
	"gorm.io/gorm"
)

// AutoMaintainRange lists the per-user tables purged when an account goes away.
var AutoMaintainRange = []any{
	&models.TopicSubscription{},
	&models.Preference{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(
		append(
			[]any{&models.Topic{}},
			AutoMaintainRange...,
		)...,
	); err != nil {
		return err
	}

	return nil
}
