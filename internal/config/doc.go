// Package config loads runtime configuration from multiple sources (YAML files,
// environment variables, CLI flags) with precedence: CLI flags > YAML config >
// Environment variables > Defaults. It also parses the "height,width,depth"
// notation used for prisms on the command line and in the environment.
package config
