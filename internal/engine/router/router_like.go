package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/translathon/translathon/internal/engine/repo"
	"github.com/translathon/translathon/internal/engine/service"
	"github.com/translathon/translathon/pkg/httpx"
	"github.com/translathon/translathon/pkg/httpx/middleware"
)

func (rt *Router) likeRouter(r fiber.Router, auth, optionalAuth fiber.Handler) {
	likeGroup := r.Group("/works/:workId/likes")
	{
		likeGroup.Get("/count", optionalAuth, rt.countLikes)
		likeGroup.Post("/", auth, rt.addLike)
		likeGroup.Delete("/", auth, rt.removeLike)
	}
}

func (rt *Router) newLikeService() *service.LikeService {
	return service.NewLikeService(repo.NewLikeRepo(rt.Ctx), repo.NewWorkRepo(rt.Ctx))
}

func (rt *Router) addLike(c *fiber.Ctx) error {
	workID, ok := pathID(c, "workId")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid work id")
	}

	claims := middleware.ClaimsFrom(c)
	resp, err := rt.newLikeService().Add(claims.UserID, workID)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, resp)
}

func (rt *Router) removeLike(c *fiber.Ctx) error {
	workID, ok := pathID(c, "workId")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid work id")
	}

	claims := middleware.ClaimsFrom(c)
	resp, err := rt.newLikeService().Remove(claims.UserID, workID)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, resp)
}

func (rt *Router) countLikes(c *fiber.Ctx) error {
	workID, ok := pathID(c, "workId")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid work id")
	}

	var viewerID *int64
	if claims := middleware.ClaimsFrom(c); claims != nil {
		viewerID = &claims.UserID
	}
	resp, err := rt.newLikeService().Count(workID, viewerID)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, resp)
}
