package v1

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/aikomi/reviewgen/review"
)

// generateRequest is the caller-facing shape of one generation request.
type generateRequest struct {
	StoreID       string `json:"storeId"`
	StoreCategory string `json:"storeCategory"`

	GoodTags    []string `json:"goodTags"`
	NeutralTags []string `json:"neutralTags"`
	BadTags     []string `json:"badTags"`

	GoodIsNone    bool `json:"goodIsNone"`
	NeutralIsNone bool `json:"neutralIsNone"`
	BadIsNone     bool `json:"badIsNone"`

	Gender         string `json:"gender,omitempty"`
	AgeBand        string `json:"ageBand,omitempty"`
	VisitFrequency string `json:"visitFrequency,omitempty"`

	Language string `json:"language,omitempty"`
}

type generateMeta struct {
	Tone       review.Style    `json:"tone"`
	Language   review.Language `json:"language"`
	TokenCount int             `json:"tokenCount"`
	Cost       float64         `json:"cost"`
}

type generateResponse struct {
	Review string       `json:"review"`
	Meta   generateMeta `json:"meta"`
}

// GenerateReview handles POST /api/v1/reviews/generate.
func (s *APIV1Service) GenerateReview(c echo.Context) error {
	if !s.generateLimiter.Allow() {
		return errorJSON(c, http.StatusTooManyRequests, "too many generation requests, slow down")
	}

	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "malformed request body")
	}
	if req.StoreID == "" {
		return errorJSON(c, http.StatusBadRequest, "storeId is required")
	}

	category := req.StoreCategory
	if category == "" && s.Catalog != nil {
		if store, err := s.Catalog.GetStore(c.Request().Context(), req.StoreID); err == nil {
			category = store.Category
		}
	}
	if category == "" {
		category = "店舗"
	}

	selection := review.NewSelection(
		req.GoodTags, req.NeutralTags, req.BadTags,
		req.GoodIsNone, req.NeutralIsNone, req.BadIsNone,
	)

	requestID := shortuuid.New()
	started := time.Now()

	result, err := s.Generator.Generate(c.Request().Context(), review.Request{
		Selection:     selection,
		Persona:       parsePersona(req),
		Language:      review.Language(req.Language),
		StoreCategory: category,
		Subject:       req.StoreID,
	})

	latency := time.Since(started)
	if err != nil {
		return s.generateError(c, requestID, req, latency, err)
	}

	if s.Metrics != nil {
		s.Metrics.RecordGeneration(string(result.Language), string(result.Style), "success", latency, result.TokenEstimate)
	}
	slog.Info("review generated",
		"request_id", requestID,
		"store", req.StoreID,
		"language", result.Language,
		"style", result.Style,
		"tokens", result.TokenEstimate,
		"duration_ms", latency.Milliseconds(),
	)

	return c.JSON(http.StatusOK, generateResponse{
		Review: result.Text,
		Meta: generateMeta{
			Tone:       result.Style,
			Language:   result.Language,
			TokenCount: result.TokenEstimate,
			Cost:       result.CostEstimate,
		},
	})
}

// generateError maps pipeline failures to status classes. Full detail goes to
// the log; the response carries only a generic message.
func (s *APIV1Service) generateError(c echo.Context, requestID string, req generateRequest, latency time.Duration, err error) error {
	slog.Error("review generation failed",
		"request_id", requestID,
		"store", req.StoreID,
		"language", req.Language,
		"error", err,
	)
	if s.Metrics != nil {
		s.Metrics.RecordGeneration(req.Language, "", "error", latency, 0)
	}

	switch {
	case errors.Is(err, review.ErrEmptySelection):
		return errorJSON(c, http.StatusBadRequest, "select at least one tag before generating")
	case errors.Is(err, review.ErrMissingConfiguration):
		return errorJSON(c, http.StatusInternalServerError, "review generation is not configured")
	case errors.Is(err, review.ErrUpstream):
		return errorJSON(c, http.StatusBadGateway, "failed to generate the review, please try again")
	default:
		return errorJSON(c, http.StatusInternalServerError, "failed to generate the review")
	}
}

// parsePersona maps the submitted attribute strings onto the known enums.
// Unknown values are treated as unspecified rather than rejected; the
// attributes are advisory only.
func parsePersona(req generateRequest) review.Persona {
	p := review.Persona{
		Gender:         review.Gender(req.Gender),
		AgeBand:        review.AgeBand(req.AgeBand),
		VisitFrequency: review.VisitFrequency(req.VisitFrequency),
	}
	if p.Valid() {
		return p
	}
	slog.Debug("unknown persona attribute dropped",
		"gender", req.Gender,
		"age_band", req.AgeBand,
		"visit_frequency", req.VisitFrequency,
	)
	if !(review.Persona{Gender: p.Gender}).Valid() {
		p.Gender = review.GenderUnspecified
	}
	if !(review.Persona{AgeBand: p.AgeBand}).Valid() {
		p.AgeBand = review.AgeBandUnspecified
	}
	if !(review.Persona{VisitFrequency: p.VisitFrequency}).Valid() {
		p.VisitFrequency = review.VisitUnspecified
	}
	return p
}
