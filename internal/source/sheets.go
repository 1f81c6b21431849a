package source

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/pable/go-hero-metrics/internal/cache"
	"github.com/pable/go-hero-metrics/internal/ingest"
)

// SheetsAPI reads a sheet through the Google Sheets v4 values endpoint.
// Unlike GViz it works for private sheets given suitable credentials.
type SheetsAPI struct {
	svc *sheets.Service
}

// NewSheetsAPI builds a Sheets client authenticated with apiKey. Extra options are
// appended after the key, so callers may override the endpoint or HTTP client.
func NewSheetsAPI(ctx context.Context, apiKey string, opts ...option.ClientOption) (*SheetsAPI, error) {
	all := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := sheets.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return &SheetsAPI{svc: svc}, nil
}

// Fetch reads every value of the named sheet; the first row is the header.
func (s *SheetsAPI) Fetch(ctx context.Context, key cache.Key) (ingest.RawTable, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(key.Location, key.Sheet).Context(ctx).Do()
	if err != nil {
		return ingest.RawTable{}, fmt.Errorf("sheets values %s: %w", key, err)
	}
	return ingest.FromValues(resp.Values), nil
}
