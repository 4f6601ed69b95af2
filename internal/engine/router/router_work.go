package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/internal/engine/repo"
	"github.com/translathon/translathon/internal/engine/service"
	"github.com/translathon/translathon/pkg/httpx"
	"github.com/translathon/translathon/pkg/httpx/middleware"
)

func (rt *Router) workRouter(r fiber.Router, auth, optionalAuth fiber.Handler) {
	workGroup := r.Group("/works")
	{
		workGroup.Get("/", optionalAuth, rt.listWorks)
		workGroup.Post("/", auth, rt.createWork)
		workGroup.Get("/:id", optionalAuth, rt.getWork)
		workGroup.Patch("/:id", auth, rt.updateWork)
		workGroup.Delete("/:id", auth, rt.deleteWork)
	}
}

func (rt *Router) newWorkService() *service.WorkService {
	return service.NewWorkService(
		repo.NewWorkRepo(rt.Ctx),
		repo.NewChallengeRepo(rt.Ctx),
		repo.NewParticipantRepo(rt.Ctx),
	)
}

func (rt *Router) createWork(c *fiber.Ctx) error {
	var req model.CreateWorkReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	claims := middleware.ClaimsFrom(c)
	work, err := rt.newWorkService().Create(claims.UserID, &req)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusCreated, work)
}

func (rt *Router) getWork(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid work id")
	}

	work, err := rt.newWorkService().Get(id)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, work)
}

func (rt *Router) listWorks(c *fiber.Ctx) error {
	q := model.ListWorksQuery{
		ChallengeID: queryInt64Ptr(c, "challengeId"),
		UserID:      queryInt64Ptr(c, "userId"),
		WorkStatus:  c.Query("workStatus"),
	}

	works, err := rt.newWorkService().List(q)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, works)
}

func (rt *Router) updateWork(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid work id")
	}
	var req model.UpdateWorkReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	claims := middleware.ClaimsFrom(c)
	work, err := rt.newWorkService().Update(claims.UserID, id, &req)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, work)
}

func (rt *Router) deleteWork(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid work id")
	}

	claims := middleware.ClaimsFrom(c)
	if err := rt.newWorkService().Delete(claims.UserID, id); err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.NoContent(c)
}
