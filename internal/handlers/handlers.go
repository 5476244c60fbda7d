// Package handlers exposes the form builder over HTTP. Handlers are thin:
// parse, delegate to a service, map faults to status codes.
package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/paulexconde/formflow/pkg/fault"
)

func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, fault.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case fault.IsClientError(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}

func pageParams(c *fiber.Ctx) (page, limit int) {
	return c.QueryInt("page", 1), c.QueryInt("limit", 10)
}
