// Package version holds the build version stamped into the binary.
package version

var (
	// Version is the semantic version of the build. Overridden at build
	// time via -ldflags.
	Version = "0.1.0"

	// GitCommit is the git commit the binary was built from.
	GitCommit = ""
)

// String returns the full human-readable version.
func String() string {
	if GitCommit != "" {
		return Version + " (" + GitCommit + ")"
	}
	return Version
}
