package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the commission's spreadsheet download endpoint.
const DefaultBaseURL = "https://solarequipment.energy.ca.gov/Home/DownloadtoExcel"

// Client downloads category spreadsheets. It performs no retries of its
// own; retry policy belongs to the orchestrator.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient builds a fetch client. An empty baseURL selects the commission
// endpoint.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// FetchSpreadsheet downloads the xlsx for one category. Any non-200
// response is an error; the caller must not touch the catalog afterwards.
func (c *Client) FetchSpreadsheet(ctx context.Context, filename string) ([]byte, error) {
	u := fmt.Sprintf("%s?filename=%s", c.baseURL, url.QueryEscape(filename))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", filename, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download %s: status %d", filename, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", filename, err)
	}
	return data, nil
}
