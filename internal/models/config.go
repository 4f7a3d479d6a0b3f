package models

// BuildConfig contains configuration for an export run. It is populated
// from CLI flags and read-only afterwards.
type BuildConfig struct {
	// Package selection
	Ident     string // origin/name[/version[/release]]
	StoreRoot string // root of the installed package store

	// Output
	ResultsDir  string
	ArchiveName string // override for the result file name
	TestName    string // render the spec only, under this name

	// Spec fields
	Compression string // none, gzip, xz, zstd
	DistTag     string // e.g. ".el9"
	Group       string

	// Dependency lists, one element per output line
	Conflicts []string
	Requires  []string
	Provides  []string
	Obsoletes []string

	// Lifecycle scriptlet files
	PreScript    string
	PostScript   string
	PreunScript  string
	PostunScript string

	// Signing
	GPGKeyPath    string
	GPGKeyName    string
	GPGPassphrase string

	// Overrides
	TemplatePath string // custom spec template
	FSDirsPath   string // custom filesystem-owned directory list
}
