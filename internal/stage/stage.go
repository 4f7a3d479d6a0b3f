package stage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg2rpm/pkg2rpm/internal/utils"
	"github.com/sirupsen/logrus"
)

// Entry is one line of the generated file manifest: an absolute install
// path, classified as directory or file, with directories further tagged
// as owned by the base filesystem package or by this package.
type Entry struct {
	Path    string
	IsDir   bool
	FSOwned bool
}

// Result describes a populated build root
type Result struct {
	BuildRoot string
	Entries   []Entry
}

// Run copies the installed package tree into a build root below workDir and
// enumerates everything it staged. installPrefix is the absolute path the
// package occupies at install time, store root included.
func Run(ctx context.Context, pkgDir, installPrefix, workDir string, fsdirs *RefList) (*Result, error) {
	buildRoot := filepath.Join(workDir, "BUILDROOT")
	stagedPkg := filepath.Join(buildRoot, installPrefix)

	logrus.Debugf("Staging %s into %s", pkgDir, stagedPkg)
	if err := utils.EnsureDir(stagedPkg); err != nil {
		return nil, fmt.Errorf("failed to create build root: %w", err)
	}
	if err := utils.CopyTree(pkgDir, stagedPkg); err != nil {
		return nil, fmt.Errorf("failed to stage package tree: %w", err)
	}

	entries, err := enumerate(ctx, buildRoot, fsdirs)
	if err != nil {
		return nil, err
	}

	logrus.Debugf("Staged %d entries", len(entries))
	return &Result{BuildRoot: buildRoot, Entries: entries}, nil
}

// enumerate walks the build root and builds the ordered file manifest
func enumerate(ctx context.Context, buildRoot string, fsdirs *RefList) ([]Entry, error) {
	var entries []Entry

	err := filepath.Walk(buildRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Check context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// The build root itself is not part of the package
		if path == buildRoot {
			return nil
		}

		installPath := strings.TrimPrefix(path, buildRoot)
		isDir := info.IsDir()

		entries = append(entries, Entry{
			Path:    installPath,
			IsDir:   isDir,
			FSOwned: isDir && fsdirs.Contains(installPath),
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate build root: %w", err)
	}

	return entries, nil
}
