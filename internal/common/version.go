package common

// Version information, overridable at build time via ldflags:
//
//	go build -ldflags "-X github.com/tenkhq/tenk/internal/common.Version=1.2.3"
var (
	Version   = "0.1.0"
	Build     = "dev"
	GitCommit = "unknown"
)

// SchemaVersion identifies the snapshot document format. Bump it whenever a
// code change alters what a stored snapshot means; persisted series written
// under an older version are stale and must be rebuilt from transactions.
const SchemaVersion = "1"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// GetBuild returns the build identifier.
func GetBuild() string {
	return Build
}

// GetGitCommit returns the git commit hash the binary was built from.
func GetGitCommit() string {
	return GitCommit
}
