package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"skill-swap/internal/config"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/delivery/http/routes"
	v1 "skill-swap/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	ct, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	go ct.Hub.Run()

	if strings.EqualFold(cfg.App.Environment, "development") {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := ct.Seed(ctx); err != nil {
			logger.Printf("seed error: %v", err)
		}
		cancel()
	}

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})
	registerGlobalMiddleware(f, logger)

	routes.NewRegistry().Register(f, v1.Dependencies{
		Config: cfg,
		DB:     ct.DB,
		Cache:  ct.Cache,
		Hub:    ct.Hub,
		Logger: logger,
	})

	return &App{Fiber: f, Container: ct}, ct.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	accessMw := middleware.NewAccessLogMiddleware(logger)
	app.Use(accessMw.Middleware())

	errMw := middleware.NewErrorMiddleware()
	app.Use(errMw.Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
