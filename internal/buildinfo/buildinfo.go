// Package buildinfo exposes the version stamped at link time.
package buildinfo

import "runtime/debug"

// Version is set with -ldflags "-X github.com/ericfisherdev/journeydemo/internal/buildinfo.Version=v1.2.3".
var Version = "dev"

// Current returns Version, falling back to the module version recorded by
// go install when no link-time value was given.
func Current() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
