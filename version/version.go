package version

// These variables are set via ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// GetVersion returns the version string
func GetVersion() string {
	return Version
}

// GetFullVersion returns the version with commit and build date appended
func GetFullVersion() string {
	if Version == "dev" {
		return "dev"
	}
	return Version + " (" + GitCommit + ", " + BuildDate + ")"
}
