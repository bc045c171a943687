package models

// TopicSubscription is one user's opt-in or opt-out for a topic.
// A zero ID marks a record that was never persisted.
type TopicSubscription struct {
	BaseModel

	Owner      string `json:"owner" gorm:"uniqueIndex:idx_subscription_owner_topic"`
	TopicID    uint   `json:"topic_id" gorm:"uniqueIndex:idx_subscription_owner_topic"`
	Topic      Topic  `json:"topic"`
	Subscribed bool   `json:"subscribed"`
}

func NewTopicSubscription(owner string, topic Topic, subscribed bool) TopicSubscription {
	return TopicSubscription{
		Owner:      owner,
		TopicID:    topic.ID,
		Topic:      topic,
		Subscribed: subscribed,
	}
}

func (v TopicSubscription) IsPersisted() bool {
	return v.ID != 0
}
