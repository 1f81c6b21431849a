// Package source fetches raw match tables from a Google spreadsheet or a local file.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pable/go-hero-metrics/internal/cache"
	"github.com/pable/go-hero-metrics/internal/ingest"
)

// Source fetches the raw table identified by key.
type Source interface {
	Fetch(ctx context.Context, key cache.Key) (ingest.RawTable, error)
}

// DefaultSheetID and DefaultSheetName point at the public Hero Realms game log.
const (
	DefaultSheetID   = "1DU1JpW27oOWjhTijTSW2tBGyMjHGioCW_E8V1syhAkE"
	DefaultSheetName = "Game Records"
)

// docsURL is the root of the public Google Docs export endpoints.
const docsURL = "https://docs.google.com"

// GViz downloads a sheet through the public gviz CSV export. The spreadsheet must be
// shared for link viewing; no credentials are sent.
type GViz struct {
	baseURL string
	http    *http.Client
}

// NewGViz returns a GViz source with a bounded request timeout.
func NewGViz(timeout time.Duration) *GViz {
	return &GViz{
		baseURL: docsURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// ExportURL returns the CSV export address for a sheet.
func (g *GViz) ExportURL(key cache.Key) string {
	q := url.Values{"tqx": {"out:csv"}, "sheet": {key.Sheet}}
	return fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?%s", g.baseURL, url.PathEscape(key.Location), q.Encode())
}

// Fetch downloads and parses the sheet as CSV.
func (g *GViz) Fetch(ctx context.Context, key cache.Key) (ingest.RawTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.ExportURL(key), nil)
	if err != nil {
		return ingest.RawTable{}, err
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return ingest.RawTable{}, fmt.Errorf("GET sheet %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return ingest.RawTable{}, fmt.Errorf("GET sheet %s: HTTP %d: %s", key, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return ingest.ReadCSV(resp.Body)
}

// File reads a local .csv or .xlsx file. key.Location is the path; key.Sheet selects
// the worksheet of a workbook and is ignored for CSV.
type File struct{}

// Fetch opens and parses the file.
func (File) Fetch(ctx context.Context, key cache.Key) (ingest.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return ingest.RawTable{}, err
	}
	f, err := os.Open(key.Location)
	if err != nil {
		return ingest.RawTable{}, fmt.Errorf("open records: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(key.Location)) {
	case ".xlsx", ".xlsm":
		return ingest.ReadXLSX(f, key.Sheet)
	default:
		return ingest.ReadCSV(f)
	}
}
