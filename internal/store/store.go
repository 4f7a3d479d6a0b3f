package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg2rpm/pkg2rpm/internal/models"
	"github.com/sirupsen/logrus"
)

// Resolve locates an installed package under the store root. Partial idents
// are completed by picking the latest version and release, where "latest"
// means last in ascending lexical order, matching the store's naming scheme.
// Returns the completed ident and the package directory.
func Resolve(root, ident string) (models.PackageIdent, string, error) {
	pkg, err := models.ParseIdent(ident)
	if err != nil {
		return models.PackageIdent{}, "", err
	}

	if pkg.Version == "" {
		pkg.Version, err = latestEntry(filepath.Join(root, pkg.Origin, pkg.Name))
		if err != nil {
			return models.PackageIdent{}, "", fmt.Errorf("no version of %s installed: %w", pkg.String(), err)
		}
	}

	if pkg.Release == "" {
		pkg.Release, err = latestEntry(filepath.Join(root, pkg.Origin, pkg.Name, pkg.Version))
		if err != nil {
			return models.PackageIdent{}, "", fmt.Errorf("no release of %s installed: %w", pkg.String(), err)
		}
	}

	dir := filepath.Join(root, pkg.Origin, pkg.Name, pkg.Version, pkg.Release)
	info, err := os.Stat(dir)
	if err != nil {
		return models.PackageIdent{}, "", fmt.Errorf("package %s not installed under %s: %w", pkg.String(), root, err)
	}
	if !info.IsDir() {
		return models.PackageIdent{}, "", fmt.Errorf("package path %s is not a directory", dir)
	}

	logrus.Debugf("Resolved %s to %s", ident, dir)
	return pkg, dir, nil
}

// latestEntry returns the lexically greatest subdirectory of dir
func latestEntry(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no entries in %s", dir)
	}

	sort.Strings(names)
	return names[len(names)-1], nil
}
