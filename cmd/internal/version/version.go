// Package version exposes the CLI version string.
package version

// Version is overridden via -ldflags at release time.
var Version = "dev"
