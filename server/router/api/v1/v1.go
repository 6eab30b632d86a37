// Package v1 exposes the REST API: review generation, store catalog lookup,
// and system diagnostics.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/aikomi/reviewgen/catalog"
	"github.com/aikomi/reviewgen/internal/profile"
	"github.com/aikomi/reviewgen/metrics"
	"github.com/aikomi/reviewgen/review"
)

type APIV1Service struct {
	Profile   *profile.Profile
	Catalog   *catalog.Service
	Generator *review.Generator
	Metrics   *metrics.Exporter

	generateLimiter *rate.Limiter
}

func NewAPIV1Service(prof *profile.Profile, cat *catalog.Service, gen *review.Generator, exp *metrics.Exporter) *APIV1Service {
	return &APIV1Service{
		Profile:         prof,
		Catalog:         cat,
		Generator:       gen,
		Metrics:         exp,
		generateLimiter: rate.NewLimiter(rate.Limit(prof.RateLimitRPS), prof.RateLimitBurst),
	}
}

// Register wires the API routes onto the Echo instance.
func (s *APIV1Service) Register(e *echo.Echo) {
	apiGroup := e.Group("/api/v1")
	apiGroup.Use(middleware.CORS())

	apiGroup.POST("/reviews/generate", s.GenerateReview)
	apiGroup.GET("/stores/:id", s.GetStore)

	// Diagnostics are for operators; keep them off production surfaces.
	if s.Profile.IsDev() {
		apiGroup.GET("/system/diagnostics", s.GetDiagnostics)
	}

	if s.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))
	}
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}

// errorResponse is the uniform failure shape: a short human-readable message
// with no upstream internals.
type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, errorResponse{Error: message})
}
