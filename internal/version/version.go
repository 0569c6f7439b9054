package version

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String returns a single-line rendition of the build metadata.
func String() string {
	return Version + " (" + GitSHA + ", " + BuildTime + ")"
}
