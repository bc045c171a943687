package database

import (
	"testing"

	"git.solsynth.dev/hypernet/announcements/pkg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGormRejectsUnknownDriver(t *testing.T) {
	_, err := NewGorm(Config{Driver: "oracle", Dsn: "whatever"})
	assert.EqualError(t, err, `unsupported database driver "oracle"`)
}

func TestRunMigration(t *testing.T) {
	db, err := NewGorm(Config{Driver: "sqlite", Dsn: ":memory:", Prefix: "announcements_"})
	require.NoError(t, err)
	require.NoError(t, RunMigration(db))

	for _, model := range append([]any{&models.Topic{}}, AutoMaintainRange...) {
		assert.True(t, db.Migrator().HasTable(model))
	}
	assert.True(t, db.Migrator().HasTable("announcements_topic_subscriptions"))
	assert.True(t, db.Migrator().HasIndex(&models.Preference{}, "idx_preference_scope"))
	assert.True(t, db.Migrator().HasIndex(&models.TopicSubscription{}, "idx_subscription_owner_topic"))

	require.NoError(t, db.Create(&models.TopicSubscription{Owner: "alice", TopicID: 5}).Error)
	assert.Error(t, db.Create(&models.TopicSubscription{Owner: "alice", TopicID: 5}).Error, "one row per owner and topic")
	assert.NoError(t, db.Create(&models.TopicSubscription{Owner: "bob", TopicID: 5}).Error)
}
