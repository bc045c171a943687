package services

import (
	"git.solsynth.dev/hypernet/announcements/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DoAutoDatabaseCleanup removes subscriptions left behind by deleted topics.
func DoAutoDatabaseCleanup(db *gorm.DB) {
	log.Debug().Msg("Cleaning up orphan subscriptions...")

	tx := db.
		Where("topic_id NOT IN (?)", db.Model(&models.Topic{}).Select("id")).
		Delete(&models.TopicSubscription{})
	if tx.Error != nil {
		log.Error().Err(tx.Error).Msg("An error occurred when cleaning up orphan subscriptions...")
		return
	}

	log.Debug().Int64("count", tx.RowsAffected).Msg("Clean up orphan subscriptions completed.")
}
