// Copyright 2025 Translathon Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/translathon/translathon/internal/engine/model"
	"github.com/translathon/translathon/internal/engine/repo"
	"github.com/translathon/translathon/internal/engine/service"
	"github.com/translathon/translathon/pkg/httpx"
	"github.com/translathon/translathon/pkg/httpx/middleware"
)

func (rt *Router) challengeRouter(r fiber.Router, auth, optionalAuth fiber.Handler, adminOnly fiber.Handler) {
	challengeGroup := r.Group("/challenges")
	{
		// static segments first so fiber does not swallow them as :id
		challengeGroup.Post("/requests", auth, rt.createChallengeRequest)
		challengeGroup.Get("/requests", auth, rt.listChallengeRequests)
		challengeGroup.Get("/requests/:id", auth, rt.getChallengeRequest)
		challengeGroup.Patch("/requests/:id", auth, rt.updateChallengeRequest)
		challengeGroup.Delete("/requests/:id", auth, rt.cancelChallengeRequest)
		challengeGroup.Patch("/requests/:id/process", auth, adminOnly, rt.processChallengeRequest)
		challengeGroup.Post("/migrate", auth, adminOnly, rt.migrateChallengeRequests)

		challengeGroup.Get("/", optionalAuth, rt.listChallenges)
		challengeGroup.Post("/", auth, rt.createChallenge)
		challengeGroup.Get("/:id", optionalAuth, rt.getChallenge)
		challengeGroup.Patch("/:id", auth, rt.updateChallenge)
		challengeGroup.Delete("/:id", auth, rt.deleteChallenge)

		challengeGroup.Delete("/:id/admin/delete", auth, adminOnly, rt.adminDeleteChallenge)
		challengeGroup.Patch("/:id/admin/reject", auth, adminOnly, rt.adminRejectChallenge)
	}
}

func (rt *Router) newChallengeService() *service.ChallengeService {
	return service.NewChallengeService(repo.NewChallengeRepo(rt.Ctx))
}

func (rt *Router) createChallenge(c *fiber.Ctx) error {
	var req model.CreateChallengeReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	claims := middleware.ClaimsFrom(c)
	challenge, err := rt.newChallengeService().Create(claims.UserID, &req)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusCreated, challenge)
}

func (rt *Router) getChallenge(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid challenge id")
	}

	detail, err := rt.newChallengeService().Get(id)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, detail)
}

func (rt *Router) listChallenges(c *fiber.Ctx) error {
	q := model.ListChallengesQuery{
		UserID:          queryInt64Ptr(c, "userId"),
		ChallengeStatus: c.Query("challengeStatus"),
		Field:           c.Query("field"),
		DocType:         c.Query("docType"),
		Page:            queryInt(c, "page", 1),
		Limit:           queryInt(c, "limit", 10),
	}

	details, total, err := rt.newChallengeService().List(q)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithPage(c, details, q.Page, q.Limit, total)
}

func (rt *Router) updateChallenge(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid challenge id")
	}
	var req model.UpdateChallengeReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	claims := middleware.ClaimsFrom(c)
	challenge, err := rt.newChallengeService().Update(claims.UserID, id, &req)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, challenge)
}

func (rt *Router) deleteChallenge(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid challenge id")
	}

	claims := middleware.ClaimsFrom(c)
	if err := rt.newChallengeService().Delete(claims.UserID, id); err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.NoContent(c)
}

func (rt *Router) adminDeleteChallenge(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid challenge id")
	}
	var req model.AdminReasonReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := rt.newChallengeService().AdminDelete(id, &req); err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.NoContent(c)
}

func (rt *Router) adminRejectChallenge(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid challenge id")
	}
	var req model.AdminReasonReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	challenge, err := rt.newChallengeService().AdminReject(id, &req)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, challenge)
}

func (rt *Router) createChallengeRequest(c *fiber.Ctx) error {
	var req model.CreateChallengeRequestReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	claims := middleware.ClaimsFrom(c)
	request, err := rt.newChallengeService().CreateRequest(claims.UserID, &req)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusCreated, request)
}

func (rt *Router) getChallengeRequest(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid request id")
	}

	claims := middleware.ClaimsFrom(c)
	detail, err := rt.newChallengeService().GetRequest(claims.UserID, claims.IsAdmin(), id)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, detail)
}

func (rt *Router) listChallengeRequests(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)
	details, err := rt.newChallengeService().ListRequests(claims.UserID, claims.IsAdmin(), c.Query("status"))
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, details)
}

func (rt *Router) updateChallengeRequest(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid request id")
	}
	var req model.UpdateChallengeRequestReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	claims := middleware.ClaimsFrom(c)
	request, err := rt.newChallengeService().UpdateRequest(claims.UserID, id, &req)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, request)
}

func (rt *Router) cancelChallengeRequest(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid request id")
	}

	claims := middleware.ClaimsFrom(c)
	request, err := rt.newChallengeService().CancelRequest(claims.UserID, id)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, request)
}

func (rt *Router) processChallengeRequest(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid request id")
	}
	var req model.ProcessChallengeRequestReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := rt.newChallengeService().ProcessRequest(id, &req)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, result)
}

func (rt *Router) migrateChallengeRequests(c *fiber.Ctx) error {
	result, err := rt.newChallengeService().MigrateApprovedRequests()
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, result)
}
