// Package sheets implements the storage boundary against the academy's
// Google Apps Script spreadsheet endpoint: feed retrieval, row
// normalization, and review appends.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/courtsync/concilia-backend/internal/config"
	"github.com/courtsync/concilia-backend/internal/model"
)

// Logical feed names as exposed by the Apps Script deployment.
const (
	SheetAdministrative = "asistencias"
	SheetInstructor     = "asistencias_profes"
	SheetSchedule       = "maestro_grupos"
	SheetDirectory      = "estudiantes"
	SheetReviews        = "revisiones"
)

// ErrMalformedFeed marks a feed response that lacks the expected
// {"data": [...]} shape. Distinct from an empty but well-formed feed:
// callers abort the refresh cycle on the three required feeds and keep
// the previous snapshot.
var ErrMalformedFeed = errors.New("malformed feed response")

// feedResponse mirrors the Apps Script envelope. Data is a pointer so
// a missing "data" key (malformed) is distinguishable from "data": [].
type feedResponse struct {
	Data  *[]map[string]any `json:"data"`
	Count int               `json:"count"`
}

// Client talks to the spreadsheet endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a sheet store client.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	return &Client{
		baseURL: cfg.SheetsAPIURL,
		http:    &http.Client{Timeout: cfg.SheetsTimeout},
		log:     log.With().Str("component", "sheets_client").Logger(),
	}
}

// FetchFeed retrieves one feed's raw rows. Returns ErrMalformedFeed
// (wrapped) when the envelope lacks the data field.
func (c *Client) FetchFeed(ctx context.Context, sheet string) ([]map[string]any, error) {
	url := fmt.Sprintf("%s?sheet=%s", c.baseURL, sheet)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", sheet, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", sheet, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", sheet, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s body: %w", sheet, err)
	}

	var envelope feedResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedFeed, sheet, err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("%w: %s: missing data field", ErrMalformedFeed, sheet)
	}

	c.log.Debug().Str("sheet", sheet).Int("rows", len(*envelope.Data)).Msg("feed fetched")
	return *envelope.Data, nil
}

// AppendReview POSTs one review record to the store. The Apps Script
// endpoint is fire-and-forget: it does not echo the persisted record or
// a structured error, so any completed round trip counts as success and
// only a transport failure counts as failure.
func (c *Client) AppendReview(ctx context.Context, rec model.ReviewRecord) error {
	payload, err := json.Marshal(reviewWire(rec))
	if err != nil {
		return fmt.Errorf("marshal review %s: %w", rec.ReviewID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build append request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("append review %s: %w", rec.ReviewID, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		// The store gives no confirmable error body; log and move on.
		c.log.Warn().
			Str("review_id", rec.ReviewID).
			Int("status", resp.StatusCode).
			Msg("append returned non-2xx, treating as accepted")
	}
	return nil
}
