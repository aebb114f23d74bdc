package app

import (
    "encoding/json"
    "errors"
    "fmt"
    "net/url"
    "os"
    "path/filepath"
    "strings"
    "time"

    yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
    Primary struct {
        URL string `yaml:"url" json:"url"`
    } `yaml:"primary" json:"primary"`

    Fallback struct {
        URL string `yaml:"url" json:"url"`
    } `yaml:"fallback" json:"fallback"`

    // Timeout is in seconds to match the TIMEOUT environment variable.
    Timeout     int    `yaml:"timeout" json:"timeout"`
    UserAgent   string `yaml:"userAgent" json:"userAgent"`
    Output      string `yaml:"output" json:"output"`
    OutputDir   string `yaml:"outputDir" json:"outputDir"`
    Concurrency int    `yaml:"concurrency" json:"concurrency"`
    Verbose     bool   `yaml:"verbose" json:"verbose"`

    Metrics struct {
        Addr string `yaml:"addr" json:"addr"`
    } `yaml:"metrics" json:"metrics"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
    var fc FileConfig
    b, err := os.ReadFile(path)
    if err != nil {
        return fc, err
    }
    switch ext := filepath.Ext(path); ext {
    case ".yaml", ".yml":
        if err := yaml.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse yaml: %w", err)
        }
    case ".json":
        if err := json.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse json: %w", err)
        }
    default:
        // Try YAML then JSON
        if err := yaml.Unmarshal(b, &fc); err != nil {
            if jerr := json.Unmarshal(b, &fc); jerr != nil {
                return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
            }
        }
    }
    return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset. Flags and env should already have been applied, so the
// file only supplies what neither of them set.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
    if cfg == nil { return }

    if cfg.PrimaryURL == "" && fc.Primary.URL != "" { cfg.PrimaryURL = fc.Primary.URL }
    if cfg.FallbackURL == "" && fc.Fallback.URL != "" { cfg.FallbackURL = fc.Fallback.URL }
    if cfg.UserAgent == "" && fc.UserAgent != "" { cfg.UserAgent = fc.UserAgent }
    if cfg.Timeout == 0 && fc.Timeout > 0 {
        cfg.Timeout = time.Duration(fc.Timeout) * time.Second
    }
    if cfg.OutputPath == "" && fc.Output != "" { cfg.OutputPath = fc.Output }
    if cfg.OutputDir == "" && fc.OutputDir != "" { cfg.OutputDir = fc.OutputDir }
    if cfg.Concurrency == 0 && fc.Concurrency > 0 { cfg.Concurrency = fc.Concurrency }
    if cfg.MetricsAddr == "" && fc.Metrics.Addr != "" { cfg.MetricsAddr = fc.Metrics.Addr }
    if !cfg.Verbose && fc.Verbose { cfg.Verbose = true }
}

// ValidateConfig rejects configurations the scraper cannot run with.
func ValidateConfig(cfg Config) error {
    if cfg.Timeout <= 0 {
        return errors.New("config: timeout must be positive")
    }
    if cfg.Concurrency < 0 {
        return errors.New("config: negative concurrency is not allowed")
    }
    if err := validateServiceURL("primary.url", cfg.PrimaryURL); err != nil {
        return err
    }
    if err := validateServiceURL("fallback.url", cfg.FallbackURL); err != nil {
        return err
    }
    if trim(cfg.OutputPath) != "" && trim(cfg.OutputDir) != "" {
        return errors.New("config: output and outputDir are mutually exclusive")
    }
    return nil
}

// validateServiceURL accepts an empty value, which selects the built-in
// default endpoint.
func validateServiceURL(name, raw string) error {
    if trim(raw) == "" { return nil }
    u, err := url.Parse(raw)
    if err != nil {
        return fmt.Errorf("config: %s: %w", name, err)
    }
    scheme := strings.ToLower(u.Scheme)
    if (scheme != "http" && scheme != "https") || u.Host == "" {
        return fmt.Errorf("config: %s must be an absolute http(s) URL, got %q", name, raw)
    }
    return nil
}

func trim(s string) string {
    return strings.TrimSpace(s)
}
