package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/internal/engine/repo"
	"github.com/translathon/translathon/internal/engine/service"
	"github.com/translathon/translathon/pkg/httpx"
)

func (rt *Router) adminRouter(r fiber.Router) {
	adminGroup := r.Group("/admin")
	{
		adminGroup.Post("/signup", rt.adminSignup)
		adminGroup.Post("/login", rt.adminLogin)
	}
}

func (rt *Router) newAdminService() *service.AdminService {
	userRepo := repo.NewUserRepo(rt.Ctx)
	return service.NewAdminService(userRepo, rt.Http.Auth)
}

func (rt *Router) adminSignup(c *fiber.Ctx) error {
	var req model.SignupReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := rt.newAdminService().Signup(&req)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusCreated, resp)
}

func (rt *Router) adminLogin(c *fiber.Ctx) error {
	var req model.LoginReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := rt.newAdminService().Login(&req)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, resp)
}
