// Package config handles configuration management for envboot.
// It layers embedded defaults, the project's envboot.toml, ENVBOOT_*
// environment variables and command-line overrides using koanf.
package config
