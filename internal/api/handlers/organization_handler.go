package handlers

import (
	"carbon-insights/internal/dto"
	"carbon-insights/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type OrganizationHandler struct {
	orgService *service.OrganizationService
	logger     *zap.Logger
}

func NewOrganizationHandler(orgService *service.OrganizationService, logger *zap.Logger) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
		logger:     logger,
	}
}

// Home renders the organization list.
func (h *OrganizationHandler) Home(c *fiber.Ctx) error {
	orgs, err := h.orgService.List(c.Context())
	if err != nil {
		h.logger.Error("Failed to list organizations", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to list organizations")
	}

	return c.Render("home", fiber.Map{
		"Title": "Organizations",
		"Orgs":  orgs,
	}, "layouts/main")
}

// ListOrganizations godoc
// @Summary List organizations
// @Tags organizations
// @Produce json
// @Success 200 {array} dto.OrganizationResponse
// @Failure 500 {object} map[string]string
// @Router /api/organizations [get]
func (h *OrganizationHandler) ListOrganizations(c *fiber.Ctx) error {
	orgs, err := h.orgService.List(c.Context())
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list organizations")
	}

	return c.JSON(dto.NewOrganizationList(orgs))
}

// CreateOrganization godoc
// @Summary Create an organization
// @Tags organizations
// @Accept json
// @Produce json
// @Param request body dto.CreateOrganizationRequest true "Organization"
// @Success 201 {object} dto.OrganizationResponse
// @Failure 400 {object} map[string]string
// @Router /api/organizations [post]
func (h *OrganizationHandler) CreateOrganization(c *fiber.Ctx) error {
	var req dto.CreateOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	org, err := h.orgService.Create(c.Context(), service.CreateOrganizationInput{
		Name:     req.Name,
		Website:  req.Website,
		OwnerRef: req.OwnerRef,
	})
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create organization")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewOrganizationResponse(org))
}
