package store

import "strings"

// SafeName converts a package name into its archive-safe form. RPM package
// names are conventionally lowercase.
func SafeName(name string) string {
	return strings.ToLower(name)
}

// SafeVersion converts a package version into its archive-safe form.
// Dashes separate version and release in RPM file names, so embedded dashes
// become tildes, which also sort before any other character in rpm version
// comparison. Dash-free versions are returned unchanged.
func SafeVersion(version string) string {
	return strings.ReplaceAll(version, "-", "~")
}
