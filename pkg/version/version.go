package version

// path: pkg/version/version.go

import (
	"fmt"
	"runtime"
)

var (
	version   = "1.4.0"
	commit    = "dev"
	buildDate = "na"
)

// Info returns version information
func Info() string {
	return fmt.Sprintf("Version: %s\nGit commit: %s\nGo version: %s\nOS/Arch: %s/%s\nBuild date: %s\n", version, commit, runtime.Version(), runtime.GOOS, runtime.GOARCH, buildDate)
}

// SetVersion sets the version information
func SetVersion(v, c, b string) {
	version = v
	commit = c
	buildDate = b
}

// Version returns the version
func Version() string {
	return version
}

// Commit returns the short git commit hash the binary was built from
func Commit() string {
	return commit
}

// Full returns version and commit in a single string, e.g. "1.4.0-ab12cd3"
func Full() string {
	return fmt.Sprintf("%s-%s", version, commit)
}
