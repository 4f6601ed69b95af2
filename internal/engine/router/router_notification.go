package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/translathon/translathon/internal/engine/repo"
	"github.com/translathon/translathon/internal/engine/service"
	"github.com/translathon/translathon/pkg/httpx"
	"github.com/translathon/translathon/pkg/httpx/middleware"
)

func (rt *Router) notificationRouter(r fiber.Router, auth fiber.Handler) {
	notificationGroup := r.Group("/notifications")
	{
		notificationGroup.Get("/", auth, rt.listNotifications)
		notificationGroup.Get("/unread/count", auth, rt.countUnreadNotifications)
		notificationGroup.Patch("/:id/read", auth, rt.markNotificationRead)
	}
}

func (rt *Router) newNotificationService() *service.NotificationService {
	return service.NewNotificationService(repo.NewNotificationRepo(rt.Ctx))
}

func (rt *Router) listNotifications(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)

	page, err := rt.newNotificationService().List(claims.UserID,
		c.Query("cursor"),
		queryInt(c, "limit", service.DefaultNotificationLimit),
		c.QueryBool("includeRead"))
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithCursor(c, page.Items, page.NextCursor, page.HasNext)
}

func (rt *Router) markNotificationRead(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return httpx.WithMessage(c, fiber.StatusBadRequest, "invalid notification id")
	}

	claims := middleware.ClaimsFrom(c)
	notification, err := rt.newNotificationService().MarkRead(claims.UserID, id)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, notification)
}

func (rt *Router) countUnreadNotifications(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)
	n, err := rt.newNotificationService().CountUnread(claims.UserID)
	if err != nil {
		return httpx.WithError(c, err)
	}
	return httpx.WithData(c, fiber.StatusOK, fiber.Map{"count": n})
}
