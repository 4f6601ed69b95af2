package httpx

import (
	"github.com/gofiber/fiber/v2"
	"github.com/translathon/translathon/pkg/errs"
	"github.com/translathon/translathon/pkg/log"
)

// Responses follow the platform envelope: successes wrap the payload in
// {"data": ...} with pagination metadata as sibling fields, errors carry
// a single {"message": ...}.

type ErrorBody struct {
	Message string `json:"message"`
}

type DataBody struct {
	Data any `json:"data"`
}

type PageBody struct {
	Data       any   `json:"data"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

type CursorBody struct {
	Data       any     `json:"data"`
	NextCursor *string `json:"nextCursor"`
	HasNext    bool    `json:"hasNext"`
}

func WithData(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(DataBody{Data: data})
}

func WithMessage(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorBody{Message: msg})
}

func WithPage(c *fiber.Ctx, data any, page, limit int, total int64) error {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return c.Status(fiber.StatusOK).JSON(PageBody{
		Data:       data,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	})
}

func WithCursor(c *fiber.Ctx, data any, nextCursor *string, hasNext bool) error {
	return c.Status(fiber.StatusOK).JSON(CursorBody{
		Data:       data,
		NextCursor: nextCursor,
		HasNext:    hasNext,
	})
}

func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// StatusOf maps an error kind to its transport status code. The mapping
// lives here and nowhere else.
func StatusOf(kind errs.Kind) int {
	switch kind {
	case errs.BadRequest:
		return fiber.StatusBadRequest
	case errs.Unauthorized:
		return fiber.StatusUnauthorized
	case errs.Forbidden:
		return fiber.StatusForbidden
	case errs.NotFound:
		return fiber.StatusNotFound
	case errs.Conflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// WithError renders a tagged business error. Untagged errors are logged
// with their cause and surfaced as a generic 500.
func WithError(c *fiber.Ctx, err error) error {
	kind := errs.KindOf(err)
	if kind == errs.Internal {
		log.Errorw("internal error", "path", c.Path(), "error", err)
	}
	return WithMessage(c, StatusOf(kind), errs.Message(err))
}
