package routes

import (
	"skill-swap/internal/delivery/http/handler"
	v1 "skill-swap/internal/delivery/http/routes/v1"
	"skill-swap/internal/pkg/jwt"
	"skill-swap/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
}

func NewRegistry() *Registry {
	return &Registry{health: handler.NewHealthHandler()}
}

func (r *Registry) Register(app *fiber.App, deps v1.Dependencies) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerWS(app, deps)
	r.registerAPI(app, deps)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerWS(app *fiber.App, deps v1.Dependencies) {
	if deps.Hub == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(
		deps.Config.JWT.AccessSecret,
		deps.Config.JWT.RefreshSecret,
		deps.Config.JWT.AccessExpiresIn,
		deps.Config.JWT.RefreshExpiresIn,
	)
	wsHandler := ws.NewHandler(deps.Hub, jwtSvc, deps.Logger)
	app.Get("/ws", wsHandler.HandleWS)
}

func (r *Registry) registerAPI(app *fiber.App, deps v1.Dependencies) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), deps)
}
