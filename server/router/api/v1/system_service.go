package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aikomi/reviewgen/catalog"
	"github.com/aikomi/reviewgen/internal/version"
)

type diagnosticsResponse struct {
	Version string           `json:"version"`
	Mode    string           `json:"mode"`
	Env     map[string]bool  `json:"env"`
	Catalog catalog.Snapshot `json:"catalog"`
}

// GetDiagnostics handles GET /api/v1/system/diagnostics. Dev mode only;
// reports which configuration is present without exposing any values.
func (s *APIV1Service) GetDiagnostics(c echo.Context) error {
	resp := diagnosticsResponse{
		Version: version.GetCurrentVersion(s.Profile.Mode),
		Mode:    s.Profile.Mode,
		Env: map[string]bool{
			"llm_api_key":       s.Profile.LLMAPIKey != "",
			"spreadsheet_id":    s.Profile.SpreadsheetID != "",
			"tags_sheet_gid":    s.Profile.TagsSheetGID != "",
			"usage_webhook_url": s.Profile.UsageWebhookURL != "",
		},
	}
	if s.Catalog != nil {
		resp.Catalog = s.Catalog.Stats()
	}
	return c.JSON(http.StatusOK, resp)
}
