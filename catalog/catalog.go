// Package catalog loads the store and tag catalog from a spreadsheet
// published as CSV exports, joins tags to stores by category, and serves
// lookups from a time-boxed cache.
package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// Tag is a catalog entry pairing a canonical name with its category and a
// free-text contextual description. Identity is the canonical name.
type Tag struct {
	Category string `json:"category"`
	Name     string `json:"tagName"`
	Context  string `json:"context"`
}

// Store is one row of the Stores sheet with its selectable tags joined in.
type Store struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	MapsURL     string `json:"googleMapsUrl"`
	Tags        []Tag  `json:"selectableTags"`
}

// ErrNotFound is returned when no store matches the requested id.
var ErrNotFound = errors.New("store not found")

const defaultExportBaseURL = "https://docs.google.com/spreadsheets/d"

// Config represents catalog service configuration.
type Config struct {
	SpreadsheetID string
	StoresGID     string
	TagsGID       string
	TTL           time.Duration
	// ExportBaseURL overrides the spreadsheet export host. For tests.
	ExportBaseURL string
}

// Service fetches and caches the catalog. Reads are lock-free against the
// current snapshot; refreshes are deduplicated so at most one fetch is in
// flight per expiry.
type Service struct {
	cfg    Config
	client *http.Client

	mu        sync.RWMutex
	stores    map[string]*Store
	fetchedAt time.Time
	lastErr   error

	group singleflight.Group
}

// NewService creates a catalog Service.
func NewService(cfg Config) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.ExportBaseURL == "" {
		cfg.ExportBaseURL = defaultExportBaseURL
	}
	return &Service{
		cfg: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Enabled reports whether a spreadsheet source is configured.
func (s *Service) Enabled() bool {
	return s.cfg.SpreadsheetID != ""
}

// GetStore returns the store with the given id, refreshing the catalog when
// the cache has expired. A stale snapshot is served when a refresh fails.
func (s *Service) GetStore(ctx context.Context, id string) (*Store, error) {
	if err := s.ensureFresh(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	store, ok := s.stores[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "id %q", id)
	}
	return store, nil
}

func (s *Service) ensureFresh(ctx context.Context) error {
	s.mu.RLock()
	fresh := s.stores != nil && time.Since(s.fetchedAt) < s.cfg.TTL
	hasSnapshot := s.stores != nil
	s.mu.RUnlock()
	if fresh {
		return nil
	}

	_, err, _ := s.group.Do("refresh", func() (any, error) {
		return nil, s.refresh(ctx)
	})
	if err != nil {
		if hasSnapshot {
			// Degrade to the stale snapshot rather than failing the request.
			slog.Warn("catalog refresh failed, serving stale snapshot", "error", err)
			return nil
		}
		return err
	}
	return nil
}

func (s *Service) refresh(ctx context.Context) error {
	if !s.Enabled() {
		slog.Warn("catalog source not configured, serving empty catalog")
		s.install(map[string]*Store{}, nil)
		return nil
	}

	tags, err := s.fetchTags(ctx)
	if err != nil {
		s.recordErr(err)
		return err
	}
	stores, err := s.fetchStores(ctx, tags)
	if err != nil {
		s.recordErr(err)
		return err
	}

	s.install(stores, nil)
	slog.Info("catalog refreshed", "stores", len(stores), "tags", len(tags))
	return nil
}

func (s *Service) install(stores map[string]*Store, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stores = stores
	s.fetchedAt = time.Now()
	s.lastErr = err
}

func (s *Service) recordErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

func (s *Service) exportURL(gid string) string {
	return fmt.Sprintf("%s/%s/export?format=csv&gid=%s", s.cfg.ExportBaseURL, s.cfg.SpreadsheetID, gid)
}

func (s *Service) fetchCSV(ctx context.Context, gid string) ([]map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.exportURL(gid), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch sheet")
	}
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck // cleanup

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch sheet: HTTP %d", resp.StatusCode)
	}

	return parseCSV(resp.Body)
}

// parseCSV reads a header row followed by records and returns them as maps
// keyed by the trimmed header names. Ragged rows are tolerated.
func parseCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read csv header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read csv record")
		}
		row := make(map[string]string, len(header))
		for i, key := range header {
			if i < len(record) {
				row[key] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Service) fetchTags(ctx context.Context) ([]Tag, error) {
	if s.cfg.TagsGID == "" {
		slog.Warn("tags sheet GID not configured, stores will carry no selectable tags")
		return nil, nil
	}

	rows, err := s.fetchCSV(ctx, s.cfg.TagsGID)
	if err != nil {
		return nil, errors.Wrap(err, "fetch category tags")
	}

	var tags []Tag
	for _, row := range rows {
		tag := Tag{
			Category: row["Category"],
			Name:     row["TagName"],
			Context:  row["Context"],
		}
		if tag.Category == "" || tag.Name == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (s *Service) fetchStores(ctx context.Context, tags []Tag) (map[string]*Store, error) {
	rows, err := s.fetchCSV(ctx, s.cfg.StoresGID)
	if err != nil {
		return nil, errors.Wrap(err, "fetch stores")
	}

	tagsByCategory := make(map[string][]Tag)
	for _, tag := range tags {
		tagsByCategory[tag.Category] = append(tagsByCategory[tag.Category], tag)
	}

	stores := make(map[string]*Store, len(rows))
	for _, row := range rows {
		store := &Store{
			ID:          row["id"],
			Name:        row["name"],
			Category:    row["category"],
			Description: row["description"],
			MapsURL:     row["googleMapsUrl"],
		}
		if store.ID == "" || store.Name == "" {
			continue
		}
		store.Tags = tagsByCategory[store.Category]
		stores[store.ID] = store
	}
	return stores, nil
}

// Snapshot describes the current cache state for diagnostics.
type Snapshot struct {
	Enabled    bool      `json:"enabled"`
	StoreCount int       `json:"storeCount"`
	FetchedAt  time.Time `json:"fetchedAt"`
	LastError  string    `json:"lastError,omitempty"`
}

// Stats returns the diagnostics snapshot.
func (s *Service) Stats() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Enabled:    s.Enabled(),
		StoreCount: len(s.stores),
		FetchedAt:  s.fetchedAt,
	}
	if s.lastErr != nil {
		snap.LastError = s.lastErr.Error()
	}
	return snap
}
