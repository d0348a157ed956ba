// Package config loads and merges reviewhook configuration from multiple
// sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (REVIEWHOOK_PROVIDER, REVIEWHOOK_MODEL, etc.)
//  3. Config file ($XDG_CONFIG_HOME/reviewhook/config.json)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config] and [SetField] to update a single
// key before saving with [Save].
package config
