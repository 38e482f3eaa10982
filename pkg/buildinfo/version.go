// Package buildinfo holds the version stamped into archscape binaries.
//
// Set the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/archscape/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/archscape/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// Date is the UTC build time.
	Date = "unknown"
)

func init() {
	if Version != "dev" {
		return
	}
	// go install stamps the module version instead of ldflags.
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
}

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent identifies archscape in outgoing HTTP requests.
func UserAgent() string {
	return "archscape/" + Version
}
