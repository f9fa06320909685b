// Package build holds build-time information.
package build

// Version is the signet release version, set through -ldflags at release time.
var Version = "dev"
