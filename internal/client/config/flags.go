package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

const (
	flagConfig          = "config"
	flagBaseURL         = "base-url"
	flagDataDir         = "data-dir"
	flagPageSize        = "page-size"
	flagTimeout         = "timeout"
	flagBulkConcurrency = "bulk-concurrency"
	flagVerifyOnStart   = "verify-on-start"
	flagLogLevel        = "log-level"
)

// BindFlags registers the configuration flags on fs. Defaults shown in help
// are the built-in ones; a config file may change them.
func BindFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.StringP(flagConfig, "c", "", "path to a JSON or YAML config file")
	fs.StringP(flagBaseURL, "a", d.BaseURL, "backend base URL")
	fs.StringP(flagDataDir, "d", d.DataDir, "directory for the local database and downloads")
	fs.Int(flagPageSize, d.PageSize, "knowledge records per page")
	fs.Duration(flagTimeout, d.RequestTimeout, "per-request timeout")
	fs.Int(flagBulkConcurrency, d.BulkConcurrency, "parallel requests during bulk delete")
	fs.Bool(flagVerifyOnStart, d.VerifyOnStart, "verify a restored session with the backend before the first protected command")
	fs.String(flagLogLevel, d.LogLevel, "log level: debug, info, warn, error")
}

// Load builds a Config from defaults, the optional config file and the
// flags the user set on fs, in that order, and validates the result.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := Default()

	path, err := fs.GetString(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("config flags not bound: %w", err)
	}
	if path != "" {
		fc, err := readFile(path)
		if err != nil {
			return nil, err
		}
		fc.apply(cfg)
	}

	if err := applyFlags(fs, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(fs *pflag.FlagSet, cfg *Config) error {
	var err error
	set := func(name string, apply func() error) {
		if err == nil && fs.Changed(name) {
			err = apply()
		}
	}

	set(flagBaseURL, func() (e error) { cfg.BaseURL, e = fs.GetString(flagBaseURL); return })
	set(flagDataDir, func() (e error) { cfg.DataDir, e = fs.GetString(flagDataDir); return })
	set(flagPageSize, func() (e error) { cfg.PageSize, e = fs.GetInt(flagPageSize); return })
	set(flagTimeout, func() (e error) { cfg.RequestTimeout, e = fs.GetDuration(flagTimeout); return })
	set(flagBulkConcurrency, func() (e error) { cfg.BulkConcurrency, e = fs.GetInt(flagBulkConcurrency); return })
	set(flagVerifyOnStart, func() (e error) { cfg.VerifyOnStart, e = fs.GetBool(flagVerifyOnStart); return })
	set(flagLogLevel, func() (e error) { cfg.LogLevel, e = fs.GetString(flagLogLevel); return })

	if err != nil {
		return fmt.Errorf("read flags: %w", err)
	}
	return nil
}
