package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts "30s"-style strings or integer nanoseconds.
type Duration time.Duration

func (d *Duration) set(v any) error {
	switch x := v.(type) {
	case string:
		p, err := time.ParseDuration(x)
		if err != nil {
			return err
		}
		*d = Duration(p)
	case float64:
		*d = Duration(int64(x))
	case int:
		*d = Duration(x)
	default:
		return fmt.Errorf("invalid duration %v", v)
	}
	return nil
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	var v any
	if err := n.Decode(&v); err != nil {
		return err
	}
	return d.set(v)
}

// fileConfig is the on-disk form; nil fields were not present in the file.
type fileConfig struct {
	BaseURL         *string   `json:"base_url" yaml:"base_url"`
	DataDir         *string   `json:"data_dir" yaml:"data_dir"`
	PageSize        *int      `json:"page_size" yaml:"page_size"`
	RequestTimeout  *Duration `json:"request_timeout" yaml:"request_timeout"`
	BulkConcurrency *int      `json:"bulk_concurrency" yaml:"bulk_concurrency"`
	VerifyOnStart   *bool     `json:"verify_on_start" yaml:"verify_on_start"`
	LogLevel        *string   `json:"log_level" yaml:"log_level"`
}

var errEmptyPath = errors.New("config path is empty")

func readFile(path string) (*fileConfig, error) {
	if path == "" {
		return nil, errEmptyPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &fc, nil
}

func (fc *fileConfig) apply(c *Config) {
	if fc.BaseURL != nil {
		c.BaseURL = *fc.BaseURL
	}
	if fc.DataDir != nil {
		c.DataDir = *fc.DataDir
	}
	if fc.PageSize != nil {
		c.PageSize = *fc.PageSize
	}
	if fc.RequestTimeout != nil {
		c.RequestTimeout = time.Duration(*fc.RequestTimeout)
	}
	if fc.BulkConcurrency != nil {
		c.BulkConcurrency = *fc.BulkConcurrency
	}
	if fc.VerifyOnStart != nil {
		c.VerifyOnStart = *fc.VerifyOnStart
	}
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
}
