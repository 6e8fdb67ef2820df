// Package version holds the app identity used in logs, the status site, and
// the Discord presence. Version is overridable at build time via -ldflags.
package version

var (
	AppName = "Modwarden"
	Version = "dev"
)
