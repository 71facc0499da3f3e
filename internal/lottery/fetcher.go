package lottery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const historyPath = "/api/front/open/lottery/history/list/game"

// HTTPFetcher pulls the raw draw-history payload for a station from the
// vendor API. Network failures, timeouts and non-2xx statuses all come
// back as plain errors; the caller treats them uniformly as a failed
// fetch.
type HTTPFetcher struct {
	client  *http.Client
	baseURL string
}

func NewHTTPFetcher(client *http.Client, baseURL string, timeout time.Duration) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	return &HTTPFetcher{
		client:  client,
		baseURL: baseURL,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, station string) ([]byte, error) {
	requestURL := fmt.Sprintf("%v%v?limitNum=30&gameCode=%v", f.baseURL, historyPath, url.QueryEscape(station))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("f.client.Do -> %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("vendor responded with status %v", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll -> %w", err)
	}

	return body, nil
}
