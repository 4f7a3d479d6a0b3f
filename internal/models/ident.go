package models

import (
	"fmt"
	"strings"
)

// PackageIdent identifies an installed package by its four store path
// segments. Immutable once read.
type PackageIdent struct {
	Origin  string
	Name    string
	Version string
	Release string
}

// ParseIdent parses an ident string of the form origin/name[/version[/release]]
func ParseIdent(s string) (PackageIdent, error) {
	parts := strings.Split(strings.Trim(s, "/"), "/")
	if len(parts) < 2 || len(parts) > 4 {
		return PackageIdent{}, fmt.Errorf("invalid package ident %q, expected origin/name[/version[/release]]", s)
	}
	for _, p := range parts {
		if p == "" {
			return PackageIdent{}, fmt.Errorf("invalid package ident %q, empty path segment", s)
		}
	}

	ident := PackageIdent{
		Origin: parts[0],
		Name:   parts[1],
	}
	if len(parts) > 2 {
		ident.Version = parts[2]
	}
	if len(parts) > 3 {
		ident.Release = parts[3]
	}

	return ident, nil
}

// FullyQualified reports whether all four segments are present
func (p PackageIdent) FullyQualified() bool {
	return p.Origin != "" && p.Name != "" && p.Version != "" && p.Release != ""
}

// String returns the ident in origin/name/version/release form, truncated
// at the first missing segment
func (p PackageIdent) String() string {
	parts := []string{p.Origin, p.Name}
	if p.Version != "" {
		parts = append(parts, p.Version)
		if p.Release != "" {
			parts = append(parts, p.Release)
		}
	}
	return strings.Join(parts, "/")
}

// Metadata contains the free-text manifest fields of an installed package.
// Absent fields are filled with their documented fallbacks by the reader.
type Metadata struct {
	License     string
	UpstreamURL string
	Maintainer  string
	Summary     string
	Description string
}
