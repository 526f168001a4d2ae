// Package config holds the runtime settings of the webcrawl binary: which
// crawler backend to use, how to reach it and the tool's valves.
//
// Settings come from, in increasing priority: built-in defaults, a JSONC file,
// WEBCRAWL_* environment variables (optionally seeded from a .env file) and
// command-line flags, which the cmd package applies on top.
package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/leofalp/webcrawl/providers/tool/webcrawl"
)

// Backend names.
const (
	BackendHTTP     = "http"
	BackendCrawl4AI = "crawl4ai"
)

// Config is the complete runtime configuration.
type Config struct {
	Backend  string          `json:"backend"`
	Valves   webcrawl.Valves `json:"valves"`
	HTTP     HTTPConfig      `json:"http"`
	Crawl4AI Crawl4AIConfig  `json:"crawl4ai"`
	Log      LogConfig       `json:"log"`
}

// HTTPConfig tunes the built-in HTTP crawler.
type HTTPConfig struct {
	Timeout     Duration `json:"timeout,omitempty"`
	UserAgent   string   `json:"user_agent,omitempty"`
	MaxBodySize int64    `json:"max_body_size,omitempty"`
}

// Crawl4AIConfig points at a Crawl4AI server.
type Crawl4AIConfig struct {
	URL     string   `json:"url,omitempty"`
	Token   string   `json:"token,omitempty"`
	Timeout Duration `json:"timeout,omitempty"`
}

// LogConfig selects log level and format ("text" or "json").
type LogConfig struct {
	Level  string `json:"level,omitempty"`
	Format string `json:"format,omitempty"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Backend: BackendHTTP,
		Valves:  webcrawl.DefaultValves(),
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendHTTP, BackendCrawl4AI:
	default:
		return fmt.Errorf("unknown backend %q (want %q or %q)", c.Backend, BackendHTTP, BackendCrawl4AI)
	}
	if c.HTTP.Timeout < 0 || c.Crawl4AI.Timeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if c.HTTP.MaxBodySize < 0 {
		return fmt.Errorf("max_body_size must not be negative")
	}
	return nil
}

// Duration is a time.Duration written as a Go duration string ("30s") or a
// number of seconds.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(value * float64(time.Second))
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration %s", data)
	}
	return nil
}
