package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"carbon-insights/internal/dto"
	"carbon-insights/internal/models"
	"carbon-insights/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type EmissionHandler struct {
	orgService      *service.OrganizationService
	ingestService   *service.IngestService
	aggService      *service.AggregationService
	forecastService *service.ForecastService
	defaultPeriods  int
	logger          *zap.Logger
}

func NewEmissionHandler(
	orgService *service.OrganizationService,
	ingestService *service.IngestService,
	aggService *service.AggregationService,
	forecastService *service.ForecastService,
	defaultPeriods int,
	logger *zap.Logger,
) *EmissionHandler {
	return &EmissionHandler{
		orgService:      orgService,
		ingestService:   ingestService,
		aggService:      aggService,
		forecastService: forecastService,
		defaultPeriods:  defaultPeriods,
		logger:          logger,
	}
}

// UploadForm renders the CSV upload form.
func (h *EmissionHandler) UploadForm(c *fiber.Ctx) error {
	orgID, ok := orgIDParam(c)
	if !ok {
		return fiber.ErrNotFound
	}

	org, err := h.orgService.Get(c.Context(), orgID)
	if errors.Is(err, service.ErrOrganizationNotFound) {
		return fiber.ErrNotFound
	}
	if err != nil {
		h.logger.Error("Failed to load organization", zap.Error(err))
		return fiber.ErrInternalServerError
	}

	return h.renderUpload(c, fiber.StatusOK, org, "")
}

// Upload stores the rows of an uploaded CSV file and reports the count as
// plain text.
func (h *EmissionHandler) Upload(c *fiber.Ctx) error {
	orgID, ok := orgIDParam(c)
	if !ok {
		return fiber.ErrNotFound
	}

	org, err := h.orgService.Get(c.Context(), orgID)
	if errors.Is(err, service.ErrOrganizationNotFound) {
		return fiber.ErrNotFound
	}
	if err != nil {
		h.logger.Error("Failed to load organization", zap.Error(err))
		return fiber.ErrInternalServerError
	}

	data, err := readUpload(c)
	if err != nil {
		return h.renderUpload(c, fiber.StatusBadRequest, org, "Please choose a CSV file to upload.")
	}

	report, err := h.ingestService.Import(c.Context(), orgID, data)
	if errors.Is(err, service.ErrInvalidEncoding) {
		return h.renderUpload(c, fiber.StatusBadRequest, org, "The file must be UTF-8 encoded CSV.")
	}
	if errors.Is(err, service.ErrMalformedCSV) {
		return h.renderUpload(c, fiber.StatusBadRequest, org, "The CSV header could not be read.")
	}
	if err != nil {
		h.logger.Error("Failed to import emissions", zap.Int64("organization_id", orgID), zap.Error(err))
		return fiber.ErrInternalServerError
	}

	return c.SendString(fmt.Sprintf("Imported %d records for %s", report.Imported, org.Name))
}

func (h *EmissionHandler) renderUpload(c *fiber.Ctx, status int, org *models.Organization, formError string) error {
	return c.Status(status).Render("upload", fiber.Map{
		"Title": "Upload emissions",
		"Org":   org,
		"Error": formError,
	}, "layouts/main")
}

// ImportEmissions godoc
// @Summary Import emission records from CSV
// @Description Accepts a multipart "file" field or a raw text/csv body. Every row is either stored or reported with a rejection reason.
// @Tags emissions
// @Accept multipart/form-data
// @Accept text/csv
// @Produce json
// @Param org_id path int true "Organization ID"
// @Param file formData file false "CSV with columns date,value,scope,activity"
// @Success 200 {object} dto.ImportReportResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/emissions/{org_id}/import [post]
func (h *EmissionHandler) ImportEmissions(c *fiber.Ctx) error {
	orgID, ok := orgIDParam(c)
	if !ok {
		return organizationNotFound(c)
	}

	var data []byte
	if _, err := c.FormFile("file"); err == nil {
		data, err = readUpload(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Failed to read file",
			})
		}
	} else {
		data = bytes.Clone(c.Body())
	}

	report, err := h.ingestService.Import(c.Context(), orgID, data)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to import emissions")
	}

	return c.JSON(dto.NewImportReportResponse(report))
}

// GetMonthlyEmissions godoc
// @Summary Monthly emission totals
// @Tags emissions
// @Produce json
// @Param org_id path int true "Organization ID"
// @Success 200 {object} dto.SeriesResponse
// @Failure 404 {object} map[string]string
// @Router /api/emissions/{org_id}/ [get]
func (h *EmissionHandler) GetMonthlyEmissions(c *fiber.Ctx) error {
	orgID, ok := orgIDParam(c)
	if !ok {
		return organizationNotFound(c)
	}

	_, points, err := h.aggService.MonthlySeries(c.Context(), orgID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to aggregate emissions")
	}

	return c.JSON(dto.NewSeriesResponse(points))
}

// ExportMonthlyCSV godoc
// @Summary Monthly emission totals as CSV
// @Tags emissions
// @Produce text/csv
// @Param org_id path int true "Organization ID"
// @Success 200 {string} string "month,value rows"
// @Failure 404 {object} map[string]string
// @Router /api/emissions_csv/{org_id}/ [get]
func (h *EmissionHandler) ExportMonthlyCSV(c *fiber.Ctx) error {
	orgID, ok := orgIDParam(c)
	if !ok {
		return organizationNotFound(c)
	}

	org, points, err := h.aggService.MonthlySeries(c.Context(), orgID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to export emissions")
	}

	var buf bytes.Buffer
	if err := service.WriteMonthlyCSV(&buf, points); err != nil {
		return respondError(c, h.logger, err, "Failed to export emissions")
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, service.ExportFilename(org)))
	return c.Send(buf.Bytes())
}

// GetForecast godoc
// @Summary Forecast monthly emissions
// @Description Predicts the months after the latest record with the organization's model. Returns an empty list when no model or no data exists.
// @Tags emissions
// @Produce json
// @Param org_id path int true "Organization ID"
// @Param periods query int false "Number of months" default(6)
// @Success 200 {object} dto.SeriesResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/emissions_forecast/{org_id}/ [get]
func (h *EmissionHandler) GetForecast(c *fiber.Ctx) error {
	orgID, ok := orgIDParam(c)
	if !ok {
		return organizationNotFound(c)
	}

	periods := h.defaultPeriods
	if raw := c.Query("periods"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "periods must be an integer",
			})
		}
		periods = n
	}

	points, err := h.forecastService.Forecast(c.Context(), orgID, periods)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to forecast emissions")
	}

	return c.JSON(dto.NewSeriesResponse(points))
}

func readUpload(c *fiber.Ctx) ([]byte, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return io.ReadAll(src)
}
