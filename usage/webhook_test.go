package usage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aikomi/reviewgen/review"
)

func sampleRecord() *review.UsageRecord {
	return &review.UsageRecord{
		ID:         "rec-1",
		Timestamp:  "2026-03-01T12:00:00+09:00",
		Subject:    "ramen-001",
		Language:   review.LanguageJapanese,
		Cost:       0.0021,
		TokenCount: 140,
	}
}

func TestNewWebhook_NilWithoutURL(t *testing.T) {
	assert.Nil(t, NewWebhook(Config{}))
	assert.NotNil(t, NewWebhook(Config{URL: "https://usage.example/hook"}))
}

func TestWebhook_Record_PostsJSON(t *testing.T) {
	var got review.UsageRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	w := NewWebhook(Config{URL: srv.URL, Timeout: time.Second})
	err := w.Record(context.Background(), sampleRecord())
	require.NoError(t, err)

	assert.Equal(t, "rec-1", got.ID)
	assert.Equal(t, "ramen-001", got.Subject)
	assert.Equal(t, review.LanguageJapanese, got.Language)
	assert.Equal(t, 140, got.TokenCount)
	assert.InDelta(t, 0.0021, got.Cost, 1e-12)
}

func TestWebhook_Record_Non2xxIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	var failures atomic.Int64
	w := NewWebhook(Config{URL: srv.URL}).OnFailure(func() { failures.Add(1) })

	err := w.Record(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
	assert.Equal(t, int64(1), failures.Load())
}

func TestWebhook_Record_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	var failures atomic.Int64
	w := NewWebhook(Config{URL: srv.URL}).OnFailure(func() { failures.Add(1) })

	err := w.Record(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.Equal(t, int64(1), failures.Load())
}

func TestWebhook_Record_SuccessSkipsCallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var failures atomic.Int64
	w := NewWebhook(Config{URL: srv.URL}).OnFailure(func() { failures.Add(1) })

	require.NoError(t, w.Record(context.Background(), sampleRecord()))
	assert.Equal(t, int64(0), failures.Load())
}
