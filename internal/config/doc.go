// Package config loads, normalizes, and validates ohmg configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OHMG_CSRF_TOKEN. The Config type centralizes every knob the CLI, the
// watch dashboard, and the stub daemon need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical endpoints, and clear validation errors.
package config
