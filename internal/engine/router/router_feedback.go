package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/internal/engine/repo"
	"github.com/translathon/translathon/internal/engine/service"
	"github.com/translathon/translathon/pkg/httpx"
	"github.com/translathon/translathon/pkg/httpx/middleware"
)

func (rt *Router) feedbackRouter(r fiber.Router, auth fiber.Handler) {
	workFeedbackGroup := r.Group("/works/:workId/feedbacks")
	{
		workFeedbackGroup.Post("/", auth, rt.createFeedback)
		workFeedbackGroup.Get("/", rt.listFeedbacks)
	}

	// mutations address the feedback directly, outside the work scope
	feedbackGroup := r.Group("/feedbacks")
	{
		feedbackGroup.Patch("/:id", auth, rt.updateFeedback)
		feedbackGroup.Delete("/:id", auth, rt.deleteFeedback)
	}
}

func (rt *Router) newFeedbackService() *service.FeedbackService {
	return service.NewFeedbackService(repo.NewFeedbackRepo(rt.Ctx), repo.NewWorkRepo(rt.Ctx))
}

func (rt *Router) createFeedback(c *fiber.Ctx) error {
	workID, ok := pathID(c, "workId")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid work id")
	}
	var req model.CreateFeedbackReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	claims := middleware.ClaimsFrom(c)
	feedback, err := rt.newFeedbackService().Create(claims.UserID, workID, &req)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusCreated, feedback)
}

func (rt *Router) listFeedbacks(c *fiber.Ctx) error {
	workID, ok := pathID(c, "workId")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid work id")
	}

	rows, total, page, limit, err := rt.newFeedbackService().List(workID,
		queryInt(c, "page", 1), queryInt(c, "limit", service.DefaultFeedbackLimit))
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithPage(c, rows, page, limit, total)
}

func (rt *Router) updateFeedback(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid feedback id")
	}
	var req model.UpdateFeedbackReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	claims := middleware.ClaimsFrom(c)
	feedback, err := rt.newFeedbackService().Update(claims.UserID, id, &req)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, feedback)
}

func (rt *Router) deleteFeedback(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid feedback id")
	}

	claims := middleware.ClaimsFrom(c)
	if err := rt.newFeedbackService().Delete(claims.UserID, id); err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.NoContent(c)
}
