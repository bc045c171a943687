package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopicSubscriptionDefaults(t *testing.T) {
	assert.True(t, Topic{SubscriptionMethod: SubscriptionPushedForced}.IsForced())
	assert.False(t, Topic{SubscriptionMethod: SubscriptionPushedInitial}.IsForced())

	assert.True(t, Topic{SubscriptionMethod: SubscriptionPushedForced}.DefaultSubscribed())
	assert.True(t, Topic{SubscriptionMethod: SubscriptionPushedInitial}.DefaultSubscribed())
	assert.False(t, Topic{SubscriptionMethod: SubscriptionPulled}.DefaultSubscribed())
}

func TestNewTopicSubscription(t *testing.T) {
	topic := Topic{BaseModel: BaseModel{ID: 12}, Title: "Athletics"}
	item := NewTopicSubscription("alice", topic, true)

	assert.False(t, item.IsPersisted())
	assert.Equal(t, uint(12), item.TopicID)
	assert.Equal(t, "alice", item.Owner)
	assert.True(t, item.Subscribed)
}

func TestRequestContextOwner(t *testing.T) {
	name := "alice"
	assert.Equal(t, "", RequestContext{}.Owner())
	assert.True(t, RequestContext{}.IsGuest())
	assert.Equal(t, "alice", RequestContext{RemoteUser: &name}.Owner())
	assert.False(t, RequestContext{RemoteUser: &name}.IsGuest())
}
