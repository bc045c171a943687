package services

import (
	"context"
	"fmt"

	"git.solsynth.dev/hypernet/announcements/pkg/internal/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// GetEditableSubscriptions lists one subscription per topic the caller may change,
// ordered by topic. Topics the caller never saved get an unpersisted default.
// Emergency topics cannot be opted out of and are left out.
func (v *SubscriptionService) GetEditableSubscriptions(ctx context.Context, rc models.RequestContext) ([]models.TopicSubscription, error) {
	var topics []models.Topic
	if err := v.db.WithContext(ctx).
		Where("subscription_method <> ?", models.SubscriptionEmergency).
		Order("id").
		Find(&topics).Error; err != nil {
		return nil, fmt.Errorf("unable to list topics: %v", err)
	}

	existing := make(map[uint]models.TopicSubscription)
	if !rc.IsGuest() {
		var subscriptions []models.TopicSubscription
		if err := v.db.WithContext(ctx).
			Where("owner = ?", rc.Owner()).
			Find(&subscriptions).Error; err != nil {
			return nil, fmt.Errorf("unable to list subscriptions: %v", err)
		}
		existing = lo.KeyBy(subscriptions, func(item models.TopicSubscription) uint {
			return item.TopicID
		})
	}

	return lo.Map(topics, func(topic models.Topic, _ int) models.TopicSubscription {
		subscription, ok := existing[topic.ID]
		if !ok {
			subscription = models.NewTopicSubscription(rc.Owner(), topic, topic.DefaultSubscribed())
		}
		subscription.Topic = topic
		if topic.IsForced() {
			subscription.Subscribed = true
		}
		return subscription
	}), nil
}
