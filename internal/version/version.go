// Package version exposes build version metadata.
package version

import (
	"runtime/debug"
)

// Version is the current version of the application. Set at build time:
// -ldflags="-X github.com/greenside-labs/go-putt/internal/version.Version=v1.0.0"
var Version = ""

// Info holds version-related metadata.
type Info struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Revision string `json:"revision,omitempty"`
}

// GetInfo returns a structured Info object for the named binary.
func GetInfo(name string) Info {
	info := Info{Name: name, Version: Get()}
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range buildInfo.Settings {
			if setting.Key == "vcs.revision" {
				info.Revision = setting.Value
			}
		}
	}
	return info
}

// Get returns the version string, falling back to module build info.
func Get() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "dev"
}
