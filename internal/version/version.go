// Package version holds build-time version information.
package version

import "fmt"

// Version is set at build time via -ldflags.
var Version = "dev"

// BuildTime is set at build time via -ldflags.
var BuildTime = "unknown"

// String returns the formatted version line.
func String() string {
	return fmt.Sprintf("hyperdrive version %s (built %s)", Version, BuildTime)
}
