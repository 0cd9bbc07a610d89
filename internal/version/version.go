// Package version exposes build information stamped in via ldflags.
package version

import "runtime"

// Set at build time:
//
//	-ldflags "-X .../internal/version.Version=v1.2.3 -X .../internal/version.Commit=abc123 -X .../internal/version.BuildTime=2024-02-12T14:30:00Z"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns the build information of the running binary.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}
