package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/internal/engine/repo"
	"github.com/translathon/translathon/internal/engine/service"
	"github.com/translathon/translathon/pkg/httpx"
	"github.com/translathon/translathon/pkg/httpx/middleware"
)

func (rt *Router) participantRouter(r fiber.Router, auth fiber.Handler) {
	participantGroup := r.Group("/challenges/:id/participants")
	{
		participantGroup.Post("/", auth, rt.requestParticipation)
		participantGroup.Get("/", auth, rt.listParticipants)
		participantGroup.Patch("/:pid", auth, rt.setParticipantStatus)
		participantGroup.Delete("/:pid", auth, rt.withdrawParticipation)
	}
}

func (rt *Router) newParticipantService() *service.ParticipantService {
	return service.NewParticipantService(
		repo.NewParticipantRepo(rt.Ctx),
		repo.NewChallengeRepo(rt.Ctx),
		repo.NewNotificationRepo(rt.Ctx),
	)
}

func (rt *Router) requestParticipation(c *fiber.Ctx) error {
	challengeID, ok := pathID(c, "id")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid challenge id")
	}

	claims := middleware.ClaimsFrom(c)
	participant, err := rt.newParticipantService().Request(claims.UserID, challengeID)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusCreated, participant)
}

func (rt *Router) listParticipants(c *fiber.Ctx) error {
	challengeID, ok := pathID(c, "id")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid challenge id")
	}

	claims := middleware.ClaimsFrom(c)
	details, err := rt.newParticipantService().List(claims.UserID, claims.IsAdmin(), challengeID)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, details)
}

func (rt *Router) setParticipantStatus(c *fiber.Ctx) error {
	challengeID, ok := pathID(c, "id")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid challenge id")
	}
	participantID, ok := pathID(c, "pid")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid participant id")
	}
	var req model.UpdateParticipantStatusReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	claims := middleware.ClaimsFrom(c)
	participant, err := rt.newParticipantService().SetStatus(claims.UserID, claims.IsAdmin(),
		challengeID, participantID, &req)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, participant)
}

func (rt *Router) withdrawParticipation(c *fiber.Ctx) error {
	challengeID, ok := pathID(c, "id")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid challenge id")
	}
	participantID, ok := pathID(c, "pid")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid participant id")
	}

	claims := middleware.ClaimsFrom(c)
	if err := rt.newParticipantService().Withdraw(claims.UserID, challengeID, participantID); err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.NoContent(c)
}
