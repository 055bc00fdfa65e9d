package handlers

import (
	"errors"
	"strconv"

	"carbon-insights/internal/dto"
	"carbon-insights/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RecommendationHandler struct {
	recService *service.RecommendationService
	logger     *zap.Logger
}

func NewRecommendationHandler(recService *service.RecommendationService, logger *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recService: recService,
		logger:     logger,
	}
}

// Dashboard renders the organization page with heuristic and saved
// recommendations.
func (h *RecommendationHandler) Dashboard(c *fiber.Ctx) error {
	orgID, ok := orgIDParam(c)
	if !ok {
		return fiber.ErrNotFound
	}

	dash, err := h.recService.Dashboard(c.Context(), orgID)
	if errors.Is(err, service.ErrOrganizationNotFound) {
		return fiber.ErrNotFound
	}
	if err != nil {
		h.logger.Error("Failed to build dashboard", zap.Int64("organization_id", orgID), zap.Error(err))
		return fiber.ErrInternalServerError
	}

	return c.Render("org_dashboard", fiber.Map{
		"Title":   dash.Organization.Name,
		"Org":     dash.Organization,
		"Recs":    dash.Suggestions,
		"Saved":   dash.Saved,
		"Monthly": dto.NewSeriesResponse(dash.Monthly).Data,
	}, "layouts/main")
}

// ListRecommendations godoc
// @Summary Heuristic and saved recommendations
// @Tags recommendations
// @Produce json
// @Param org_id path int true "Organization ID"
// @Success 200 {object} dto.RecommendationsResponse
// @Failure 404 {object} map[string]string
// @Router /api/organizations/{org_id}/recommendations [get]
func (h *RecommendationHandler) ListRecommendations(c *fiber.Ctx) error {
	orgID, ok := orgIDParam(c)
	if !ok {
		return organizationNotFound(c)
	}

	dash, err := h.recService.Dashboard(c.Context(), orgID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list recommendations")
	}

	return c.JSON(dto.NewRecommendationsResponse(dash.Suggestions, dash.Saved))
}

// ListSuggestions godoc
// @Summary Heuristic reduction suggestions
// @Tags recommendations
// @Produce json
// @Param org_id path int true "Organization ID"
// @Success 200 {object} dto.SuggestionsResponse
// @Failure 404 {object} map[string]string
// @Router /api/organizations/{org_id}/suggestions [get]
func (h *RecommendationHandler) ListSuggestions(c *fiber.Ctx) error {
	orgID, ok := orgIDParam(c)
	if !ok {
		return organizationNotFound(c)
	}

	suggestions, err := h.recService.Suggest(c.Context(), orgID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to compute suggestions")
	}

	return c.JSON(dto.NewSuggestionsResponse(suggestions))
}

// CreateRecommendation godoc
// @Summary Save a recommendation
// @Tags recommendations
// @Accept json
// @Produce json
// @Param org_id path int true "Organization ID"
// @Param request body dto.CreateRecommendationRequest true "Recommendation"
// @Success 201 {object} dto.RecommendationResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/organizations/{org_id}/recommendations [post]
func (h *RecommendationHandler) CreateRecommendation(c *fiber.Ctx) error {
	orgID, ok := orgIDParam(c)
	if !ok {
		return organizationNotFound(c)
	}

	var req dto.CreateRecommendationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	rec, err := h.recService.Create(c.Context(), orgID, service.CreateRecommendationInput{
		Title:              req.Title,
		Detail:             req.Detail,
		EstimatedReduction: req.EstimatedReduction,
	})
	if err != nil {
		return respondError(c, h.logger, err, "Failed to save recommendation")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewRecommendationResponse(rec))
}

// ApplyRecommendation godoc
// @Summary Mark a saved recommendation as applied
// @Tags recommendations
// @Produce json
// @Param id path int true "Recommendation ID"
// @Success 200 {object} dto.RecommendationResponse
// @Failure 404 {object} map[string]string
// @Router /api/recommendations/{id}/apply [post]
func (h *RecommendationHandler) ApplyRecommendation(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Recommendation not found",
		})
	}

	rec, err := h.recService.Apply(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to apply recommendation")
	}

	return c.JSON(dto.NewRecommendationResponse(rec))
}
