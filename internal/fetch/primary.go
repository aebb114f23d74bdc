package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// DefaultPrimaryURL is the reader service the target URL is appended to.
const DefaultPrimaryURL = "https://r.jina.ai/"

// Primary fetches pre-rendered markdown from a reader service by appending
// the raw target URL to BaseURL.
type Primary struct {
	Client
	BaseURL string
}

// NewPrimary returns a Primary bounded by timeout per request.
func NewPrimary(baseURL string, timeout time.Duration) *Primary {
	if baseURL == "" {
		baseURL = DefaultPrimaryURL
	}
	return &Primary{Client: Client{PerRequestTimeout: timeout}, BaseURL: baseURL}
}

// Fetch issues GET <BaseURL><target>.
func (p *Primary) Fetch(ctx context.Context, target string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+target, nil)
	if err != nil {
		return Result{}, fmt.Errorf("primary: new request: %w", err)
	}
	resp, body, err := p.do(ctx, "primary", req)
	if err != nil {
		return Result{}, err
	}
	return Result{Body: string(body), StatusCode: resp.StatusCode}, nil
}
