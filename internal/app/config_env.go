package app

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
    if cfg == nil { return }

    if cfg.PrimaryURL == "" {
        cfg.PrimaryURL = os.Getenv("PRIMARY_URL")
    }
    if cfg.FallbackURL == "" {
        // FLARESOLVERR_URL is accepted as an alias
        v := os.Getenv("FALLBACK_URL")
        if v == "" { v = os.Getenv("FLARESOLVERR_URL") }
        cfg.FallbackURL = v
    }
    if cfg.UserAgent == "" {
        cfg.UserAgent = os.Getenv("USER_AGENT")
    }
    if cfg.Timeout == 0 {
        if d, ok := parseTimeout(os.Getenv("TIMEOUT")); ok {
            cfg.Timeout = d
        }
    }
    if cfg.Concurrency == 0 {
        if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("CONCURRENCY"))); err == nil && n > 0 {
            cfg.Concurrency = n
        }
    }
    if cfg.MetricsAddr == "" {
        cfg.MetricsAddr = os.Getenv("METRICS_ADDR")
    }

    setBool := func(dst *bool, envKey string) {
        if *dst { return }
        if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
            if s == "1" || s == "true" || s == "yes" || s == "on" {
                *dst = true
            }
        }
    }
    setBool(&cfg.Verbose, "VERBOSE")
}

// parseTimeout accepts whole seconds ("120") or a Go duration ("2m").
func parseTimeout(s string) (time.Duration, bool) {
    s = strings.TrimSpace(s)
    if s == "" { return 0, false }
    if n, err := strconv.Atoi(s); err == nil {
        if n <= 0 { return 0, false }
        return time.Duration(n) * time.Second, true
    }
    d, err := time.ParseDuration(s)
    if err != nil || d <= 0 { return 0, false }
    return d, true
}
