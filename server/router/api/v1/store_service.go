package v1

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aikomi/reviewgen/catalog"
)

type storeResponse struct {
	Store *catalog.Store `json:"store"`
}

// GetStore handles GET /api/v1/stores/:id.
func (s *APIV1Service) GetStore(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return errorJSON(c, http.StatusBadRequest, "store id is required")
	}

	store, err := s.Catalog.GetStore(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			if s.Metrics != nil {
				s.Metrics.RecordCatalogLookup("not_found")
			}
			return errorJSON(c, http.StatusNotFound, "store not found")
		}
		slog.Error("store lookup failed", "id", id, "error", err)
		if s.Metrics != nil {
			s.Metrics.RecordCatalogLookup("error")
		}
		return errorJSON(c, http.StatusServiceUnavailable, "store catalog is unavailable")
	}

	if s.Metrics != nil {
		s.Metrics.RecordCatalogLookup("hit")
	}
	return c.JSON(http.StatusOK, storeResponse{Store: store})
}
