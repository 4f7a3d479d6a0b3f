package models

import "fmt"

// Stage represents the pipeline stage an error originated from
type Stage int

const (
	StageConfig Stage = iota
	StageManifest
	StageStaging
	StageSpecRender
	StageBuild
	StageSigning
	StageVerify
)

// String returns the string representation of Stage
func (s Stage) String() string {
	switch s {
	case StageConfig:
		return "Config"
	case StageManifest:
		return "Manifest"
	case StageStaging:
		return "Staging"
	case StageSpecRender:
		return "SpecRender"
	case StageBuild:
		return "Build"
	case StageSigning:
		return "Signing"
	case StageVerify:
		return "Verify"
	default:
		return "Unknown"
	}
}

// ExportError represents an error during package export
type ExportError struct {
	Stage Stage
	Ident string
	Err   error
}

// Error implements the error interface
func (e *ExportError) Error() string {
	if e.Ident != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Stage, e.Ident, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Stage, e.Err)
}

// Unwrap returns the wrapped error
func (e *ExportError) Unwrap() error {
	return e.Err
}
