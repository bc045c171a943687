package api

import (
	"git.solsynth.dev/hypernet/announcements/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

type Controllers struct {
	Editor        *services.PreferencesEditor
	Preferences   *services.PreferenceProvider
	Announcements *services.AnnouncementService

	// DisplayURL is where a saved form sends the browser back to.
	DisplayURL string
}

func (v *Controllers) MapControllers(app *fiber.App, baseURL string) {
	api := app.Group(baseURL)
	{
		preferences := api.Group("/preferences")
		{
			preferences.Get("/", v.editPreferences)
			preferences.Post("/", v.savePreferences)
		}

		topics := api.Group("/topics")
		{
			topics.Get("/", v.listTopics)
			topics.Get("/:topicId", v.getTopic)
		}
	}
}
