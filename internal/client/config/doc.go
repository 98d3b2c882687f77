// Package config loads the CLI's runtime settings by layering defaults,
// environment variables (REVERIE_*), an optional JSON file (-c/-config) and
// command-line flags, in that order of increasing precedence.
package config
