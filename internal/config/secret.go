package config

import (
	"fmt"
	"os"
)

// ResolveSecret resolves a credential based on the given source.
// Supported sources: "env" (from environment variable) and "config" (the
// config value, which may be empty).
func ResolveSecret(source, configValue, envVar string) (string, error) {
	switch source {
	case "env":
		return resolveFromEnv(envVar)
	case "", "config":
		return configValue, nil
	default:
		return "", fmt.Errorf("unknown secret source: %q", source)
	}
}

func resolveFromEnv(envVar string) (string, error) {
	if envVar == "" {
		return "", fmt.Errorf("no environment variable name specified")
	}
	val := os.Getenv(envVar)
	if val == "" {
		return "", fmt.Errorf("environment variable %s is not set", envVar)
	}
	return val, nil
}
