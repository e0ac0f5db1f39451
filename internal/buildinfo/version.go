// Package buildinfo holds version information injected at build time:
//
//	go build -ldflags "-X github.com/ivlev/pic2ascii/internal/buildinfo.Version=v1.0.0 \
//	    -X github.com/ivlev/pic2ascii/internal/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/ivlev/pic2ascii/internal/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
