package api

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"carbon-insights/docs"
	"carbon-insights/internal/api/handlers"
	"carbon-insights/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

//go:embed templates
var templateFiles embed.FS

type Handlers struct {
	Organization   *handlers.OrganizationHandler
	Emission       *handlers.EmissionHandler
	Recommendation *handlers.RecommendationHandler
	Health         *handlers.HealthHandler
}

type RouterConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

func SetupRouter(h Handlers, cfg RouterConfig, appLogger *zap.Logger) *fiber.App {
	templates, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		appLogger.Fatal("Embedded templates missing", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		Views:        html.NewFileSystem(http.FS(templates), ".html"),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID",
	}))
	app.Use(middleware.RequestLogger(appLogger))

	// Operational
	app.Get("/healthz", h.Health.Healthz)
	app.Get("/readyz", h.Health.Readyz)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	_ = docs.SwaggerInfo // registers the generated spec with swag
	app.Get("/swagger/*", swagger.HandlerDefault)

	// HTML pages
	app.Get("/", h.Organization.Home)
	app.Get("/upload/:org_id", h.Emission.UploadForm)
	app.Post("/upload/:org_id", h.Emission.Upload)
	app.Get("/org/:org_id", h.Recommendation.Dashboard)

	// JSON and CSV API
	api := app.Group("/api")
	api.Get("/emissions/:org_id", h.Emission.GetMonthlyEmissions)
	api.Post("/emissions/:org_id/import", h.Emission.ImportEmissions)
	api.Get("/emissions_forecast/:org_id", h.Emission.GetForecast)
	api.Get("/emissions_csv/:org_id", h.Emission.ExportMonthlyCSV)

	api.Get("/organizations", h.Organization.ListOrganizations)
	api.Post("/organizations", h.Organization.CreateOrganization)
	api.Get("/organizations/:org_id/recommendations", h.Recommendation.ListRecommendations)
	api.Post("/organizations/:org_id/recommendations", h.Recommendation.CreateRecommendation)
	api.Get("/organizations/:org_id/suggestions", h.Recommendation.ListSuggestions)
	api.Post("/recommendations/:id/apply", h.Recommendation.ApplyRecommendation)

	return app
}

// errorHandler answers API routes with a JSON error and pages with plain text.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(code).SendString(err.Error())
}
