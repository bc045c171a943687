package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"git.solsynth.dev/hypernet/announcements/pkg/internal/cache"
	"git.solsynth.dev/hypernet/announcements/pkg/internal/database"
	"git.solsynth.dev/hypernet/announcements/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/announcements/pkg/internal/models"
	"git.solsynth.dev/hypernet/announcements/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	app, db, _ := setupCachedTestApp(t)
	return app, db
}

func setupCachedTestApp(t *testing.T) (*fiber.App, *gorm.DB, *services.AnnouncementService) {
	t.Helper()

	db, err := database.NewGorm(database.Config{Driver: "sqlite", Dsn: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.RunMigration(db))
	t.Cleanup(func() {
		if raw, err := db.DB(); err == nil {
			_ = raw.Close()
		}
	})

	store, err := cache.NewStore()
	require.NoError(t, err)
	announcements := services.NewAnnouncementService(db, cache.NewMarshaler(store))

	controllers := &Controllers{
		Announcements: announcements,
		Accounts:      services.NewAccountService(db),
		Admins:        []string{"root"},
	}

	app := fiber.New(fiber.Config{ErrorHandler: exts.ErrorHandler})
	app.Use(exts.ContextMiddleware(exts.IdentityConfig{}))
	controllers.MapControllers(app, "/api/admin")

	return app, db, announcements
}

func doRequest(t *testing.T, app *fiber.App, method, path, user, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if len(user) > 0 {
		req.Header.Set(exts.DefaultRemoteUserHeader, user)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAdminGate(t *testing.T) {
	app, _ := setupTestApp(t)
	body := `{"title":"Parking","subscription_method":3}`

	resp := doRequest(t, app, http.MethodPost, "/api/admin/topics", "", body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/admin/topics", "alice", body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminTopicLifecycle(t *testing.T) {
	app, db := setupTestApp(t)

	resp := doRequest(t, app, http.MethodPost, "/api/admin/topics", "root", `{"title":"Parking","subscription_method":3}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var topic models.Topic
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&topic))
	assert.NotZero(t, topic.ID)
	assert.Equal(t, models.SubscriptionPulled, topic.SubscriptionMethod)

	resp = doRequest(t, app, http.MethodPost, "/api/admin/topics", "root", `{"title":"","subscription_method":9}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPut, "/api/admin/topics/"+itoa(topic.ID), "root", `{"title":"Parking permits","subscription_method":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var edited models.Topic
	require.NoError(t, db.First(&edited, topic.ID).Error)
	assert.Equal(t, "Parking permits", edited.Title)
	assert.True(t, edited.IsForced())

	require.NoError(t, db.Create(&models.TopicSubscription{Owner: "alice", TopicID: topic.ID, Subscribed: true}).Error)

	resp = doRequest(t, app, http.MethodDelete, "/api/admin/topics/"+itoa(topic.ID), "root", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.TopicSubscription{}).Count(&count).Error)
	assert.Zero(t, count)

	resp = doRequest(t, app, http.MethodDelete, "/api/admin/topics/"+itoa(topic.ID), "root", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminTopicBadID(t *testing.T) {
	app, _ := setupTestApp(t)
	body := `{"title":"Parking","subscription_method":3}`

	for _, id := range []string{"abc", "0", "-1"} {
		resp := doRequest(t, app, http.MethodPut, "/api/admin/topics/"+id, "root", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, id)

		resp = doRequest(t, app, http.MethodDelete, "/api/admin/topics/"+id, "root", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, id)
	}
}

func TestAdminEditTopicReadsDatabase(t *testing.T) {
	app, db, announcements := setupCachedTestApp(t)
	topic := models.Topic{Title: "Parking", SubscriptionMethod: models.SubscriptionPulled}
	require.NoError(t, db.Create(&topic).Error)

	_, err := announcements.GetTopic(context.Background(), topic.ID)
	require.NoError(t, err)
	require.NoError(t, db.Delete(&models.Topic{}, topic.ID).Error)

	// Even with the topic still cached, editing must not bring it back.
	resp := doRequest(t, app, http.MethodPut, "/api/admin/topics/"+itoa(topic.ID), "root", `{"title":"Parking permits","subscription_method":3}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Topic{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAdminPurgeAccount(t *testing.T) {
	app, db := setupTestApp(t)
	require.NoError(t, db.Create(&models.TopicSubscription{Owner: "alice", TopicID: 1, Subscribed: true}).Error)
	require.NoError(t, db.Create(&models.TopicSubscription{Owner: "bob", TopicID: 1, Subscribed: true}).Error)

	resp := doRequest(t, app, http.MethodDelete, "/api/admin/accounts/alice", "root", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var owners []string
	require.NoError(t, db.Model(&models.TopicSubscription{}).Pluck("owner", &owners).Error)
	assert.Equal(t, []string{"bob"}, owners)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
