package app

import "time"

// Defaults New applies to unset fields.
const (
	DefaultTimeout     = 120 * time.Second
	DefaultConcurrency = 4
	DefaultUserAgent   = "webustler/1.0 (+https://github.com/hyperifyio/webustler)"
)

// Config holds runtime configuration for the application.
type Config struct {
	// Services
	PrimaryURL  string
	FallbackURL string
	UserAgent   string
	Timeout     time.Duration

	// Output
	OutputPath string
	OutputDir  string

	// Serving
	MCP         bool
	MetricsAddr string

	// Behavior
	Concurrency int
	Verbose     bool
}
