package client

import (
	"fmt"
	"strings"
)

// Platform selects how requests leave the process.
type Platform string

const (
	PlatformWeb    Platform = "web"
	PlatformNative Platform = "native"
)

const (
	DefaultWebBaseURL = "http://localhost:8080"
	// DefaultNativeBaseURL reaches the host machine from an Android emulator.
	DefaultNativeBaseURL = "http://10.0.2.2:8080"
)

// ParsePlatform accepts "web" or "native", case-insensitively. Empty means web.
func ParsePlatform(raw string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PlatformWeb:
		return PlatformWeb, nil
	case PlatformNative:
		return PlatformNative, nil
	}
	return "", fmt.Errorf("unknown platform %q (expected web|native)", raw)
}

// ResolveBaseURL picks the base URL configured for the platform, falling back to
// the defaults. Trailing slashes are dropped.
func ResolveBaseURL(platform Platform, cfg Config) string {
	var base string
	if platform == PlatformNative {
		base = cfg.NativeBaseURL
		if base == "" {
			base = DefaultNativeBaseURL
		}
	} else {
		base = cfg.WebBaseURL
		if base == "" {
			base = DefaultWebBaseURL
		}
	}
	return strings.TrimRight(strings.TrimSpace(base), "/")
}
