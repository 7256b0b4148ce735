// Package version holds the application version string, overridable at
// build time with -ldflags "-X .../internal/version.Version=v1.2.3".
package version

// Version is the current application version
var Version = "0.3.0"
