package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	// DefaultFallbackURL is the local browser-automation endpoint.
	DefaultFallbackURL = "http://localhost:8191/v1"
	// FallbackGrace is added to the base timeout for the HTTP round trip so
	// the service can report its own timeout first.
	FallbackGrace = 30 * time.Second

	fallbackCommand = "request.get"
	statusOK        = "ok"
)

// Fallback drives a FlareSolverr-style service that loads the page in a real
// browser and returns the rendered HTML.
type Fallback struct {
	Client
	Endpoint string
	// MaxTimeout is the processing window passed to the service.
	MaxTimeout time.Duration
}

// NewFallback returns a Fallback whose service window is timeout and whose
// HTTP round trip may take timeout plus FallbackGrace.
func NewFallback(endpoint string, timeout time.Duration) *Fallback {
	if endpoint == "" {
		endpoint = DefaultFallbackURL
	}
	return &Fallback{
		Client:     Client{PerRequestTimeout: timeout + FallbackGrace},
		Endpoint:   endpoint,
		MaxTimeout: timeout,
	}
}

type fallbackRequest struct {
	Cmd        string `json:"cmd"`
	URL        string `json:"url"`
	MaxTimeout int64  `json:"maxTimeout"`
}

type fallbackResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Solution *struct {
		Response *string `json:"response"`
		Status   *int    `json:"status"`
	} `json:"solution"`
}

// Fetch asks the service to GET target. The returned status is the one the
// service saw from the target site, 200 when it does not report one.
func (f *Fallback) Fetch(ctx context.Context, target string) (Result, error) {
	payload, err := json.Marshal(fallbackRequest{
		Cmd:        fallbackCommand,
		URL:        target,
		MaxTimeout: f.MaxTimeout.Milliseconds(),
	})
	if err != nil {
		return Result{}, fmt.Errorf("fallback: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("fallback: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	_, body, err := f.do(ctx, "fallback", req)
	if err != nil {
		return Result{}, err
	}

	var data fallbackResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return Result{}, fmt.Errorf("fallback: decode response: %w", err)
	}
	if data.Status != statusOK {
		msg := data.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return Result{}, &ServiceError{Message: msg}
	}
	if data.Solution == nil || data.Solution.Response == nil {
		return Result{}, fmt.Errorf("fallback: response has no solution body")
	}
	status := http.StatusOK
	if data.Solution.Status != nil {
		status = *data.Solution.Status
	}
	return Result{Body: *data.Solution.Response, StatusCode: status}, nil
}
