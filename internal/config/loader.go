package config

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tailscale/hujson"
)

// Environment variables read by [Load].
const (
	EnvBackend       = "WEBCRAWL_BACKEND"
	EnvIgnoreLinks   = "WEBCRAWL_IGNORE_LINKS"
	EnvIgnoreImages  = "WEBCRAWL_IGNORE_IMAGES"
	EnvUserAgent     = "WEBCRAWL_USER_AGENT"
	EnvTimeout       = "WEBCRAWL_TIMEOUT"
	EnvCrawl4AIURL   = "WEBCRAWL_CRAWL4AI_URL"
	EnvCrawl4AIToken = "WEBCRAWL_CRAWL4AI_TOKEN"
	EnvLogLevel      = "WEBCRAWL_LOG_LEVEL"
	EnvLogFormat     = "WEBCRAWL_LOG_FORMAT"
)

var envTemplateRe = regexp.MustCompile(`\$\{\{\s*\.Env\.(\w+)\s*\}\}`)

// Load builds the configuration from defaults, the JSONC file at path (skipped
// when path is empty) and WEBCRAWL_* environment variables, then validates it.
//
// String values in the file may reference the environment as
// ${{ .Env.NAME }}.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode merges a JSONC document into cfg. Keys absent from the document
// keep the value already in cfg.
func decode(data []byte, cfg *Config) error {
	standard, err := hujson.Standardize(data)
	if err != nil {
		return err
	}
	expanded := expandEnvTemplates(string(standard))
	return json.Unmarshal([]byte(expanded), cfg)
}

// expandEnvTemplates replaces ${{ .Env.VAR }} with the variable's value,
// escaped for use inside a JSON string.
func expandEnvTemplates(s string) string {
	return envTemplateRe.ReplaceAllStringFunc(s, func(match string) string {
		parts := envTemplateRe.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		quoted := strconv.Quote(os.Getenv(parts[1]))
		return quoted[1 : len(quoted)-1]
	})
}

func applyEnv(cfg *Config) error {
	if v, ok := lookup(EnvBackend); ok {
		cfg.Backend = strings.ToLower(v)
	}
	if v, ok := lookup(EnvIgnoreLinks); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvIgnoreLinks, err)
		}
		cfg.Valves.IgnoreLinks = b
	}
	if v, ok := lookup(EnvIgnoreImages); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvIgnoreImages, err)
		}
		cfg.Valves.IgnoreImages = b
	}
	if v, ok := lookup(EnvUserAgent); ok {
		cfg.HTTP.UserAgent = v
	}
	if v, ok := lookup(EnvTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.HTTP.Timeout = Duration(d)
		cfg.Crawl4AI.Timeout = Duration(d)
	}
	if v, ok := lookup(EnvCrawl4AIURL); ok {
		cfg.Crawl4AI.URL = v
	}
	if v, ok := lookup(EnvCrawl4AIToken); ok {
		cfg.Crawl4AI.Token = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.Log.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok {
		cfg.Log.Format = v
	}
	return nil
}

// lookup treats variables set to an empty string as unset.
func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
