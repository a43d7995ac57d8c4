package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/JonMunkholm/pacificsands/internal/lots"
)

// MaxResponseSize caps the body read from an HTTP source.
const MaxResponseSize = 10 << 20

// HTTP fetches the lot list with a single GET. There are no query
// parameters, no pagination and no authentication.
type HTTP struct {
	URL    string
	Client *http.Client
}

func (h *HTTP) Name() string { return "http:" + h.URL }

func (h *HTTP) Fetch(ctx context.Context) ([]lots.Lot, error) {
	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", h.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get %s: unexpected status %s", h.URL, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	name := h.URL
	if u, err := url.Parse(h.URL); err == nil {
		name = u.Path
	}
	return Decode(name, data)
}
