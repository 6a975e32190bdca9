package version

import (
	"fmt"
	"runtime"
)

// Version indicates the release of the binary.
// Set via -ldflags "-X github.com/racman-io/racman/internal/version.Version=v1.0.0"
var Version string

// GitCommit stores the Git commit hash the binary was built from.
// Set via -ldflags "-X github.com/racman-io/racman/internal/version.GitCommit=$(git rev-parse --short HEAD)"
var GitCommit string

// BuildTime stores the build timestamp in UTC.
// Set via -ldflags "-X github.com/racman-io/racman/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var BuildTime string

// VersionInfo formats the versioning information on one line.
func VersionInfo() string {
	return fmt.Sprintf("Version: %s, Git Commit: %s, Build Time: %s, Go Version: %s",
		Version, GitCommit, BuildTime, runtime.Version())
}
