package handlers

import (
	"errors"
	"strconv"

	"carbon-insights/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// orgIDParam parses :org_id. Anything but a base-10 integer is treated as an
// unknown organization.
func orgIDParam(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("org_id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func organizationNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Organization not found",
	})
}

// respondError maps service errors to JSON responses. Unexpected errors are
// logged and reported as msg with a 500.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error, msg string) error {
	switch {
	case errors.Is(err, service.ErrOrganizationNotFound):
		return organizationNotFound(c)
	case errors.Is(err, service.ErrRecommendationNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Recommendation not found",
		})
	case errors.Is(err, service.ErrInvalidEncoding),
		errors.Is(err, service.ErrMalformedCSV),
		errors.Is(err, service.ErrInvalidOrganization),
		errors.Is(err, service.ErrInvalidRecommendation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	logger.Error(msg, zap.Error(err), zap.String("path", c.Path()))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": msg,
	})
}
