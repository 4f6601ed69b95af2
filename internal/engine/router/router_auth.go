package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/internal/engine/repo"
	"github.com/translathon/translathon/internal/engine/service"
	"github.com/translathon/translathon/pkg/httpx"
	"github.com/translathon/translathon/pkg/httpx/middleware"
)

func (rt *Router) authRouter(r fiber.Router, auth fiber.Handler) {
	authGroup := r.Group("/auth")
	{
		authGroup.Post("/signup", rt.signup)
		authGroup.Post("/login", rt.login)
		authGroup.Post("/google", rt.googleLogin)

		authGroup.Post("/logout", auth, rt.logout)
		authGroup.Get("/me", auth, rt.me)
	}
}

func (rt *Router) newAuthService() *service.AuthService {
	userRepo := repo.NewUserRepo(rt.Ctx)
	return service.NewAuthService(userRepo, rt.Verifier, rt.Http.Auth)
}

func (rt *Router) signup(c *fiber.Ctx) error {
	var req model.SignupReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := rt.newAuthService().Signup(&req)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusCreated, resp)
}

func (rt *Router) login(c *fiber.Ctx) error {
	var req model.LoginReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := rt.newAuthService().Login(&req)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, resp)
}

func (rt *Router) googleLogin(c *fiber.Ctx) error {
	var req model.GoogleLoginReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := rt.newAuthService().GoogleLogin(c.UserContext(), &req)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, resp)
}

func (rt *Router) logout(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)
	if err := rt.newAuthService().Logout(claims.UserID); err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.NoContent(c)
}

func (rt *Router) me(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)
	profile, err := rt.newAuthService().Me(claims.UserID)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, profile)
}
