package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aikomi/reviewgen/catalog"
	"github.com/aikomi/reviewgen/internal/profile"
	"github.com/aikomi/reviewgen/metrics"
	"github.com/aikomi/reviewgen/review"
)

// stubProvider is a function-field completion backend for handler tests.
type stubProvider struct {
	completeFunc func(ctx context.Context, req review.CompletionRequest) (*review.Completion, error)
}

func (s *stubProvider) Complete(ctx context.Context, req review.CompletionRequest) (*review.Completion, error) {
	return s.completeFunc(ctx, req)
}

func testProfile() *profile.Profile {
	return &profile.Profile{
		Mode:           "dev",
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}
}

func newTestService(provider review.CompletionProvider) *APIV1Service {
	var gen *review.Generator
	if provider != nil {
		gen = review.NewGenerator(provider, nil)
	} else {
		gen = review.NewGenerator(nil, nil)
	}
	return NewAPIV1Service(testProfile(), catalog.NewService(catalog.Config{}), gen, metrics.NewExporter(metrics.DefaultConfig()))
}

func postGenerate(svc *APIV1Service, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews/generate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = svc.GenerateReview(c)
	return rec
}

func TestGenerateReview_Success(t *testing.T) {
	svc := newTestService(&stubProvider{
		completeFunc: func(_ context.Context, req review.CompletionRequest) (*review.Completion, error) {
			assert.NotEmpty(t, req.SystemInstructions)
			assert.Contains(t, req.UserContent, "ramen was great")
			return &review.Completion{Text: "Loved the ramen here.", TotalTokens: 21}, nil
		},
	})

	rec := postGenerate(svc, `{
		"storeId": "ramen-001",
		"storeCategory": "ramen shop",
		"goodTags": ["ramen was great"],
		"neutralIsNone": true,
		"badIsNone": true,
		"language": "en"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp generateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Loved the ramen here.", resp.Review)
	assert.Equal(t, review.LanguageEnglish, resp.Meta.Language)
	assert.Equal(t, 21, resp.Meta.TokenCount)
	assert.Contains(t, []review.Style{review.StyleShort, review.StyleCasual, review.StyleDetailed}, resp.Meta.Tone)
}

func TestGenerateReview_EmptySelection(t *testing.T) {
	svc := newTestService(&stubProvider{
		completeFunc: func(context.Context, review.CompletionRequest) (*review.Completion, error) {
			t.Fatal("provider must not be called")
			return nil, nil
		},
	})

	rec := postGenerate(svc, `{
		"storeId": "ramen-001",
		"storeCategory": "ramen shop",
		"goodIsNone": true,
		"neutralIsNone": true,
		"badIsNone": true
	}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "at least one tag")
}

func TestGenerateReview_MissingStoreID(t *testing.T) {
	svc := newTestService(nil)

	rec := postGenerate(svc, `{"goodTags": ["a"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateReview_MalformedBody(t *testing.T) {
	svc := newTestService(nil)

	rec := postGenerate(svc, `{"storeId": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateReview_UnconfiguredBackend(t *testing.T) {
	svc := newTestService(nil)

	rec := postGenerate(svc, `{
		"storeId": "ramen-001",
		"storeCategory": "ramen shop",
		"goodTags": ["tasty"]
	}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "review generation is not configured", resp.Error)
}

func TestGenerateReview_UpstreamFailure(t *testing.T) {
	svc := newTestService(&stubProvider{
		completeFunc: func(context.Context, review.CompletionRequest) (*review.Completion, error) {
			return nil, errors.New("rate limited by provider")
		},
	})

	rec := postGenerate(svc, `{
		"storeId": "ramen-001",
		"storeCategory": "ramen shop",
		"goodTags": ["tasty"]
	}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)

	// The upstream detail stays in the log, never in the response body.
	assert.NotContains(t, rec.Body.String(), "rate limited by provider")
}

func TestGenerateReview_RateLimited(t *testing.T) {
	prof := testProfile()
	prof.RateLimitRPS = 0.0001
	prof.RateLimitBurst = 1
	svc := NewAPIV1Service(prof, catalog.NewService(catalog.Config{}), review.NewGenerator(nil, nil), nil)

	body := `{"storeId": "s1", "goodTags": ["a"]}`
	first := postGenerate(svc, body)
	second := postGenerate(svc, body)

	// The first request consumes the single burst token; the second is
	// rejected before any work happens.
	assert.NotEqual(t, http.StatusTooManyRequests, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestGenerateReview_UnsupportedLanguageFallsBack(t *testing.T) {
	svc := newTestService(&stubProvider{
		completeFunc: func(context.Context, review.CompletionRequest) (*review.Completion, error) {
			return &review.Completion{Text: "よかったです。", TotalTokens: 8}, nil
		},
	})

	rec := postGenerate(svc, `{
		"storeId": "ramen-001",
		"storeCategory": "ラーメン店",
		"goodTags": ["おいしい"],
		"language": "pt"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp generateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, review.LanguageJapanese, resp.Meta.Language)
}

func TestParsePersona(t *testing.T) {
	t.Run("known values pass through", func(t *testing.T) {
		p := parsePersona(generateRequest{Gender: "female", AgeBand: "30s", VisitFrequency: "regular"})
		assert.Equal(t, review.GenderFemale, p.Gender)
		assert.Equal(t, review.AgeBand30s, p.AgeBand)
		assert.Equal(t, review.VisitRegular, p.VisitFrequency)
	})

	t.Run("unknown values dropped individually", func(t *testing.T) {
		p := parsePersona(generateRequest{Gender: "robot", AgeBand: "20s", VisitFrequency: "sometimes"})
		assert.Equal(t, review.GenderUnspecified, p.Gender)
		assert.Equal(t, review.AgeBand20s, p.AgeBand)
		assert.Equal(t, review.VisitUnspecified, p.VisitFrequency)
	})

	t.Run("empty request yields zero persona", func(t *testing.T) {
		assert.True(t, parsePersona(generateRequest{}).IsZero())
	})
}
