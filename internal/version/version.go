// Package version holds the build-time version string reported by
// GET /version.
package version

// Version is overridden at build time via:
//
//	go build -ldflags "-X github.com/timzaak/notir/internal/version.Version=v1.2.3"
var Version = "dev"
