// Package version reports build metadata stamped in with -ldflags
package version

import "runtime"

// BuildInfo holds version information about the service build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

// stamped with
// -ldflags "-X 'moodmeter/internal/core/version.version=v0.1.0' -X 'moodmeter/internal/core/version.commit=abcd'"
var (
	service = "moodmeter-api"
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build information
func Info() BuildInfo {
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
		Go:      runtime.Version(),
	}
}

// String renders a one line banner used by the CLI and startup log
func (b BuildInfo) String() string {
	return b.Service + " " + b.Version + " (" + b.Commit + ", " + b.Date + ", " + b.Go + ")"
}
