package v1

import (
	"log"

	"skill-swap/internal/config"
	"skill-swap/internal/database"
	"skill-swap/internal/delivery/http/handler"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/infrastructure/cache"
	"skill-swap/internal/pkg/jwt"
	"skill-swap/internal/pkg/mailer"
	"skill-swap/internal/repository"
	"skill-swap/internal/usecase"
	"skill-swap/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Dependencies carries the shared infrastructure handed down from the
// container. Handlers and usecases are wired here per request group.
type Dependencies struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub
	Logger *log.Logger
}

func Register(r fiber.Router, deps Dependencies) {
	if r == nil {
		return
	}
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}

	jwtSvc := jwt.NewHMACService(
		deps.Config.JWT.AccessSecret,
		deps.Config.JWT.RefreshSecret,
		deps.Config.JWT.AccessExpiresIn,
		deps.Config.JWT.RefreshExpiresIn,
	)

	authMw := middleware.NewAuthMiddleware(jwtSvc)

	userRepo := repository.NewPostgresUserRepository(deps.DB)
	skillRepo := repository.NewPostgresSkillRepository(deps.DB)
	userSkillRepo := repository.NewPostgresUserSkillRepository(deps.DB)
	requestRepo := repository.NewPostgresMatchRequestRepository(deps.DB)

	notifier := ws.NewNotifier(deps.Hub)
	smtp := mailer.NewSMTPMailer(deps.Config.SMTP)

	authUC := usecase.NewAuthUsecase(userRepo, deps.Cache, smtp, jwtSvc)
	userUC := usecase.NewUserUsecase(userRepo)
	skillUC := usecase.NewSkillUsecase(skillRepo, deps.Logger)
	userSkillUC := usecase.NewUserSkillUsecase(userSkillRepo, skillRepo, deps.Cache, deps.Logger)
	matchingUC := usecase.NewMatchingUsecase(userSkillRepo, deps.Cache, deps.Logger)
	requestUC := usecase.NewMatchRequestUsecase(requestRepo, userSkillRepo, userRepo, notifier, deps.Logger)
	requestListUC := usecase.NewMatchRequestListUsecase(requestRepo, deps.Logger)

	authHandler := handler.NewAuthHandler(authUC)
	userHandler := handler.NewUserHandler(userUC)
	skillHandler := handler.NewSkillHandler(skillUC)
	userSkillHandler := handler.NewUserSkillHandler(userSkillUC)
	matchHandler := handler.NewMatchHandler(matchingUC)
	requestHandler := handler.NewMatchRequestHandler(requestUC, requestListUC)

	authGroup := r.Group("/auth")
	authHandler.RegisterRoutes(authGroup)

	protected := r.Group("", authMw.Middleware())

	usersGroup := protected.Group("/users")
	userHandler.RegisterRoutes(usersGroup)

	userSkillsGroup := usersGroup.Group("/me/skills")
	userSkillHandler.RegisterRoutes(userSkillsGroup)

	skillsGroup := protected.Group("/skills")
	skillHandler.RegisterRoutes(skillsGroup)

	matchesGroup := protected.Group("/matches")
	matchHandler.RegisterRoutes(matchesGroup)

	requestsGroup := protected.Group("/match-requests")
	requestHandler.RegisterRoutes(requestsGroup)
}
