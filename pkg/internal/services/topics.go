package services

import (
	"context"
	"fmt"
	"time"

	"git.solsynth.dev/hypernet/announcements/pkg/internal/models"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnnouncementService struct {
	db    *gorm.DB
	cache *marshaler.Marshaler
}

// NewAnnouncementService creates the service, a nil cache disables topic caching.
func NewAnnouncementService(db *gorm.DB, cache *marshaler.Marshaler) *AnnouncementService {
	return &AnnouncementService{db: db, cache: cache}
}

func GetTopicCacheKey(id uint) string {
	return fmt.Sprintf("topic#%d", id)
}

func (v *AnnouncementService) ListTopics(ctx context.Context) ([]models.Topic, error) {
	var topics []models.Topic
	err := v.db.WithContext(ctx).Order("id").Find(&topics).Error
	return topics, err
}

func (v *AnnouncementService) GetTopic(ctx context.Context, id uint) (models.Topic, error) {
	if v.cache != nil {
		if val, err := v.cache.Get(ctx, GetTopicCacheKey(id), new(models.Topic)); err == nil {
			return *val.(*models.Topic), nil
		}
	}

	topic, err := v.FetchTopic(ctx, id)
	if err != nil {
		return topic, err
	}

	v.cacheTopic(ctx, topic)
	return topic, nil
}

// FetchTopic reads the topic from the database without touching the cache.
func (v *AnnouncementService) FetchTopic(ctx context.Context, id uint) (models.Topic, error) {
	var topic models.Topic
	if err := v.db.WithContext(ctx).Where("id = ?", id).First(&topic).Error; err != nil {
		return topic, fmt.Errorf("unable to get topic %d: %w", id, err)
	}
	return topic, nil
}

func (v *AnnouncementService) NewTopic(ctx context.Context, topic models.Topic) (models.Topic, error) {
	topic.ID = 0
	err := v.db.WithContext(ctx).Create(&topic).Error
	return topic, err
}

func (v *AnnouncementService) EditTopic(ctx context.Context, topic models.Topic) (models.Topic, error) {
	if err := v.db.WithContext(ctx).Save(&topic).Error; err != nil {
		return topic, err
	}
	v.invalidateTopic(ctx, topic.ID)
	return topic, nil
}

// DeleteTopic removes the topic together with every subscription to it.
func (v *AnnouncementService) DeleteTopic(ctx context.Context, topic models.Topic) error {
	err := v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("topic_id = ?", topic.ID).Delete(&models.TopicSubscription{}).Error; err != nil {
			return err
		}
		return tx.Delete(&topic).Error
	})
	if err != nil {
		return err
	}
	v.invalidateTopic(ctx, topic.ID)
	return nil
}

// AddOrSaveTopicSubscriptions persists the batch in one transaction.
// A record without an id takes over the owner's existing row for the same topic, if any.
// Records with an id must already belong to their owner and stay on their topic.
// Records are updated in place with their persisted ids.
func (v *AnnouncementService) AddOrSaveTopicSubscriptions(ctx context.Context, items []models.TopicSubscription) error {
	return v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for idx := range items {
			item := &items[idx]
			if item.Topic.ID != 0 {
				item.TopicID = item.Topic.ID
			}

			var current models.TopicSubscription
			if item.IsPersisted() {
				if err := tx.Where("id = ?", item.ID).First(&current).Error; err != nil {
					return fmt.Errorf("unable to get subscription %d: %w", item.ID, err)
				}
				if current.Owner != item.Owner {
					return fmt.Errorf("subscription %d does not belong to %q", item.ID, item.Owner)
				}
				if current.TopicID != item.TopicID {
					return fmt.Errorf("subscription %d is on topic %d, not %d", item.ID, current.TopicID, item.TopicID)
				}
			} else {
				err := tx.Where("owner = ? AND topic_id = ?", item.Owner, item.TopicID).Limit(1).Find(&current).Error
				if err != nil {
					return fmt.Errorf("unable to get subscription on topic %d: %w", item.TopicID, err)
				}
				item.ID = current.ID
			}
			if current.ID != 0 {
				item.CreatedAt = current.CreatedAt
			}

			if err := tx.Omit(clause.Associations).Save(item).Error; err != nil {
				return fmt.Errorf("unable to save subscription on topic %d: %v", item.TopicID, err)
			}
		}
		return nil
	})
}

func (v *AnnouncementService) cacheTopic(ctx context.Context, topic models.Topic) {
	if v.cache == nil {
		return
	}
	key := GetTopicCacheKey(topic.ID)
	if err := v.cache.Set(
		ctx,
		key,
		topic,
		store.WithExpiration(5*time.Minute),
		store.WithTags([]string{"topic", key}),
	); err != nil {
		log.Warn().Err(err).Uint("topic", topic.ID).Msg("Unable to cache topic...")
	}
}

func (v *AnnouncementService) invalidateTopic(ctx context.Context, id uint) {
	if v.cache == nil {
		return
	}
	_ = v.cache.Delete(ctx, GetTopicCacheKey(id))
}
