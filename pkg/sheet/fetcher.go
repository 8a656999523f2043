package sheet

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const exportURLFormat = "https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s"

// ErrEmptySheet is returned when the export responded with no content.
var ErrEmptySheet = errors.New("sheet: export returned an empty body")

// Fetcher downloads the public CSV export of a spreadsheet.
type Fetcher struct {
	client *resty.Client
	url    string
}

// NewFetcher builds a fetcher for the Google Sheets CSV export endpoint.
func NewFetcher(sheetID, gid string, timeout time.Duration) *Fetcher {
	return NewFetcherWithURL(fmt.Sprintf(exportURLFormat, sheetID, gid), timeout)
}

// NewFetcherWithURL points the fetcher at an arbitrary CSV URL.
func NewFetcherWithURL(url string, timeout time.Duration) *Fetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "text/csv").
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second)
	client.AddRetryCondition(retryCondition)

	return &Fetcher{client: client, url: url}
}

func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= 500 || code == http.StatusTooManyRequests
}

// Fetch returns the raw CSV text.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	resp, err := f.client.R().SetContext(ctx).Get(f.url)
	if err != nil {
		return "", fmt.Errorf("sheet: fetch failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("sheet: fetch failed with status %d", resp.StatusCode())
	}
	body := resp.String()
	if strings.TrimSpace(body) == "" {
		return "", ErrEmptySheet
	}
	return body, nil
}
