// Package config loads runtime configuration for the KnowledgeKeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see Default).
//  2. Optional config file selected with -c/--config. Files ending in .yaml
//     or .yml are read as YAML, anything else as JSON. Only keys present in
//     the file override the defaults.
//  3. Command-line flags, applied only when the user set them.
//
// # File schema
//
// Durations are either strings like "30s" or integer nanoseconds:
//
//	{
//	  "base_url": "http://127.0.0.1:8000",
//	  "data_dir": ".knowledgekeeper",
//	  "page_size": 15,
//	  "request_timeout": "30s",
//	  "bulk_concurrency": 4,
//	  "verify_on_start": false,
//	  "log_level": "warn"
//	}
package config
