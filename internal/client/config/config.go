package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/knowledgekeeper/internal/common"
)

// Config holds runtime settings for the CLI.
type Config struct {
	// BaseURL is the backend root, e.g. http://127.0.0.1:8000.
	BaseURL string
	// DataDir holds the local database and downloaded files.
	DataDir         string
	PageSize        int
	RequestTimeout  time.Duration
	BulkConcurrency int
	// VerifyOnStart re-checks a restored token with the backend the first
	// time a protected command runs.
	VerifyOnStart bool
	LogLevel      string
}

func Default() *Config {
	return &Config{
		BaseURL:         "http://127.0.0.1:8000",
		DataDir:         ".knowledgekeeper",
		PageSize:        15,
		RequestTimeout:  30 * time.Second,
		BulkConcurrency: 4,
		VerifyOnStart:   false,
		LogLevel:        "warn",
	}
}

func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "knowledgekeeper.db")
}

func (c *Config) DownloadDir() string {
	return filepath.Join(c.DataDir, "downloads")
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if c.BaseURL == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: base url %q must be an absolute http(s) url", common.ErrValidation, c.BaseURL)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("%w: data dir is required", common.ErrValidation)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("%w: page size must be positive, got %d", common.ErrValidation, c.PageSize)
	}
	if c.BulkConcurrency <= 0 {
		return fmt.Errorf("%w: bulk concurrency must be positive, got %d", common.ErrValidation, c.BulkConcurrency)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive, got %s", common.ErrValidation, c.RequestTimeout)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", common.ErrValidation, c.LogLevel)
	}
	return nil
}
