package admin

import (
	"git.solsynth.dev/hypernet/announcements/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

type Controllers struct {
	Announcements *services.AnnouncementService
	Accounts      *services.AccountService

	// Admins are the remote users allowed to manage topics.
	Admins []string
}

func (v *Controllers) MapControllers(app *fiber.App, baseURL string) {
	admin := app.Group(baseURL, v.ensureAdmin)
	{
		admin.Post("/topics", v.adminCreateTopic)
		admin.Put("/topics/:topicId", v.adminEditTopic)
		admin.Delete("/topics/:topicId", v.adminDeleteTopic)
		admin.Delete("/accounts/:owner", v.adminPurgeAccount)
	}
}
