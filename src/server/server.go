package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/theleywin/Backend-Linkup/src/config"
	"github.com/theleywin/Backend-Linkup/src/controllers"
	"github.com/theleywin/Backend-Linkup/src/lib"
	"github.com/theleywin/Backend-Linkup/src/mail"
	"github.com/theleywin/Backend-Linkup/src/media"
	"github.com/theleywin/Backend-Linkup/src/middleware"
	"github.com/theleywin/Backend-Linkup/src/routes"
	"github.com/theleywin/Backend-Linkup/src/services"
	"github.com/theleywin/Backend-Linkup/src/store"
)

// Deps are the backing services the HTTP layer is wired to.
type Deps struct {
	Users         store.UserStore
	Posts         store.PostStore
	Connections   store.ConnectionStore
	Notifications store.NotificationStore
	Images        media.ImageStore
	Mail          mail.Queue
	Blacklist     lib.TokenBlacklist
}

type Server struct {
	App *fiber.App
	Cfg config.Config
}

func NewServer(cfg config.Config, deps Deps) *Server {
	app := fiber.New(fiber.Config{
		AppName:   "linkup",
		BodyLimit: 10 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins(cfg), ","),
		AllowCredentials: true,
	}))

	s := &Server{App: app, Cfg: cfg}
	registerRoutes(s, deps)
	return s
}

func origins(cfg config.Config) []string {
	var out []string
	for _, o := range strings.Split(cfg.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		out = append(out, cfg.ClientURL)
	}
	return out
}

func registerRoutes(s *Server, deps Deps) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", lib.MetricsHandler())

	if deps.Images == nil {
		deps.Images = media.Disabled{}
	}
	if deps.Mail == nil {
		deps.Mail = mail.NopQueue{}
	}

	tokens := lib.NewTokenManager(s.Cfg.JWTSecret, lib.SessionTTL)
	notifications := services.NewNotificationService(deps.Notifications, deps.Users, deps.Posts)
	auth := services.NewAuthService(deps.Users, tokens, deps.Blacklist, deps.Mail, s.Cfg.ClientURL)
	protect := middleware.ProtectRoute(auth)

	api := s.App.Group("/api/v1")
	routes.AuthRoutes(api, controllers.NewAuthController(auth, s.Cfg.IsProduction()), protect)
	routes.UserRoutes(api, controllers.NewUserController(services.NewUserService(deps.Users, deps.Images)), protect)
	routes.ConnectionRoutes(api, controllers.NewConnectionController(
		services.NewConnectionService(deps.Connections, deps.Users, notifications, deps.Mail, s.Cfg.ClientURL),
	), protect)
	routes.PostRoutes(api, controllers.NewPostController(
		services.NewPostService(deps.Posts, deps.Users, notifications, deps.Images, deps.Mail, s.Cfg.ClientURL),
	), protect)
	routes.NotificationRoutes(api, controllers.NewNotificationController(notifications), protect)
}
