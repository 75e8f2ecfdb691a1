// Package netscan version information.
package netscan

// Version information for the netscan library.
const (
	// Version is the semantic version of the library.
	Version = "1.2.0"

	// VersionMajor is the major version number.
	VersionMajor = 1

	// VersionMinor is the minor version number.
	VersionMinor = 2

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// VersionInfo returns the full version string with the tool name.
func VersionInfo() string {
	return "netscan v" + Version
}
