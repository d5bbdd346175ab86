package app

import (
	"fmt"

	"github.com/ecoscan/wastecal/internal/transport/rest"
)

// Version, Commit, and BuildTime are set via ldflags at build time.
// Example: go build -ldflags "-X github.com/ecoscan/wastecal/internal/app.Version=1.0.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion returns a formatted version string for startup logs.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}

func versionInfo() rest.VersionInfo {
	return rest.VersionInfo{Version: Version, Commit: Commit, BuildTime: BuildTime}
}
