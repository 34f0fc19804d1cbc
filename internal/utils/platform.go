package utils

import (
	"fmt"
	"runtime"
	"strings"
)

// Platform identifies the runtime target the client is built for. Endpoint
// defaults differ per platform because the android emulator reaches the host
// loopback through an alias address.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformWeb     Platform = "web"
)

// Platforms lists every supported platform.
var Platforms = []Platform{PlatformAndroid, PlatformIOS, PlatformWeb}

// DetectPlatform maps the Go runtime to a platform. Desktop systems and
// wasm count as web: they reach the server through the generic loopback.
func DetectPlatform() Platform {
	return platformFor(runtime.GOOS)
}

func platformFor(goos string) Platform {
	switch goos {
	case "android":
		return PlatformAndroid
	case "ios":
		return PlatformIOS
	default:
		return PlatformWeb
	}
}

// ParsePlatform accepts a platform name case-insensitively. An empty name
// selects DetectPlatform.
func ParsePlatform(name string) (Platform, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DetectPlatform(), nil
	}
	for _, p := range Platforms {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unsupported platform: %s", name)
}
