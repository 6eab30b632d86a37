package review

import (
	"context"
	"time"
)

// UsageRecord is a best-effort accounting entry for one generation. Delivery
// is fire-and-forget: the core hands it to a UsageSink and never retries.
type UsageRecord struct {
	ID        string   `json:"id"`
	Timestamp string   `json:"timestamp"` // zoned to the reference timezone
	Subject   string   `json:"subject"`
	Language  Language `json:"language"`
	Cost      float64  `json:"cost"`
	TokenCount int     `json:"tokenCount"`
}

// UsageSink accepts usage records. Failures are logged by the caller and
// never surface to the patron-facing response.
type UsageSink interface {
	Record(ctx context.Context, rec *UsageRecord) error
}

// referenceTimezone is the fixed zone usage timestamps are rendered in.
// The deployment's accounting runs on Japan time.
var referenceTimezone = loadReferenceTimezone()

func loadReferenceTimezone() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}
