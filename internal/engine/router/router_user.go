package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/translathon/translathon/pkg/httpx"
)

func (rt *Router) userRouter(r fiber.Router) {
	userGroup := r.Group("/users")
	{
		userGroup.Get("/:id", rt.userProfile)
	}
}

func (rt *Router) userProfile(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid user id")
	}

	summary, err := rt.newAuthService().Profile(c.UserContext(), id)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, summary)
}
