package http

import (
	"time"

	"git.solsynth.dev/hypernet/announcements/pkg/internal/http/admin"
	"git.solsynth.dev/hypernet/announcements/pkg/internal/http/api"
	"git.solsynth.dev/hypernet/announcements/pkg/internal/http/exts"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Bind        string
	PrintRoutes bool
	Identity    exts.IdentityConfig
}

type App struct {
	app  *fiber.App
	bind string
}

func NewServer(cfg Config, apis *api.Controllers, admins *admin.Controllers) *App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		EnableIPValidation:    true,
		ServerHeader:          "Hypernet.Announcements",
		AppName:               "Hypernet.Announcements",
		ProxyHeader:           fiber.HeaderXForwardedFor,
		JSONEncoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
		BodyLimit:             8 * 1024 * 1024,
		EnablePrintRoutes:     cfg.PrintRoutes,
		ErrorHandler:          exts.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestLogger)
	app.Use(exts.ContextMiddleware(cfg.Identity))

	apis.MapControllers(app, "/api")
	admins.MapControllers(app, "/api/admin")

	return &App{app: app, bind: cfg.Bind}
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	// Render the error here so the logged status is the one sent.
	if err != nil {
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}
	log.Debug().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("took", time.Since(start)).
		Msg("Handled request.")
	return nil
}

func (v *App) Listen() {
	if err := v.app.Listen(v.bind); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when starting server...")
	}
}

func (v *App) Shutdown() error {
	return v.app.Shutdown()
}
