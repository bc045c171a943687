package exts

import (
	"strings"

	"git.solsynth.dev/hypernet/announcements/pkg/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const (
	DefaultRemoteUserHeader = "X-Remote-User"
	DefaultInstanceHeader   = "X-Portlet-Window"
	DefaultInstance         = "default"

	requestContextLocal = "request_context"
	guestLocal          = "is_guest"
)

// IdentityConfig names the headers the fronting portal uses to pass the
// authenticated user and the portlet window along.
type IdentityConfig struct {
	RemoteUserHeader string
	InstanceHeader   string
}

func ContextMiddleware(cfg IdentityConfig) fiber.Handler {
	if len(cfg.RemoteUserHeader) == 0 {
		cfg.RemoteUserHeader = DefaultRemoteUserHeader
	}
	if len(cfg.InstanceHeader) == 0 {
		cfg.InstanceHeader = DefaultInstanceHeader
	}

	return func(c *fiber.Ctx) error {
		rc := models.RequestContext{
			Instance:  utils.CopyString(strings.TrimSpace(c.Get(cfg.InstanceHeader))),
			UserAgent: utils.CopyString(c.Get(fiber.HeaderUserAgent)),
		}
		if len(rc.Instance) == 0 {
			rc.Instance = DefaultInstance
		}
		if user := strings.TrimSpace(c.Get(cfg.RemoteUserHeader)); len(user) > 0 {
			user = utils.CopyString(user)
			rc.RemoteUser = &user
		}

		c.Locals(requestContextLocal, rc)
		c.Locals(guestLocal, rc.IsGuest())
		return c.Next()
	}
}

func GetRequestContext(c *fiber.Ctx) models.RequestContext {
	if rc, ok := c.Locals(requestContextLocal).(models.RequestContext); ok {
		return rc
	}
	return models.RequestContext{Instance: DefaultInstance}
}

// IsGuest is true when no authenticated user came with the request.
func IsGuest(c *fiber.Ctx) bool {
	return GetRequestContext(c).IsGuest()
}

func EnsureAuthenticated(c *fiber.Ctx) error {
	if IsGuest(c) {
		return fiber.NewError(fiber.StatusUnauthorized, "you need sign in first")
	}
	return nil
}
