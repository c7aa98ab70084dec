// Package build carries values stamped in at link time
package build

// Set with -ldflags "-X github.com/drummonds/imgconv/internal/build.Version=v1.2.3"
var (
	Version   = "dev"
	BuildDate = ""
)
