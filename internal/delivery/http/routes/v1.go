package routes

import (
	v1 "skill-swap/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, deps v1.Dependencies) {
	if r == nil {
		return
	}

	v1.Register(r, deps)
}
