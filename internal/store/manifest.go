package store

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg2rpm/pkg2rpm/internal/models"
)

// ManifestFile is the metadata file accompanying every installed package
const ManifestFile = "MANIFEST"

// Manifest fields are free-text lines carrying a bold-marker key, e.g.
//
//	* __License__: Apache-2.0
//	* __Upstream URL__: https://example.org/tool
const (
	markerLicense     = "__License__:"
	markerUpstreamURL = "__Upstream URL__:"
	markerMaintainer  = "__Maintainer__:"
	markerDescription = "__Description__:"
)

// ReadManifest reads the package manifest and extracts the metadata fields,
// applying the documented fallback for each absent field.
func ReadManifest(pkgDir string, ident models.PackageIdent) (models.Metadata, error) {
	path := filepath.Join(pkgDir, ManifestFile)
	f, err := os.Open(path)
	if err != nil {
		return models.Metadata{}, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	var meta models.Metadata

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case meta.License == "" && strings.Contains(line, markerLicense):
			meta.License = markerValue(line, markerLicense)
		case meta.UpstreamURL == "" && strings.Contains(line, markerUpstreamURL):
			meta.UpstreamURL = markerValue(line, markerUpstreamURL)
		case meta.Maintainer == "" && strings.Contains(line, markerMaintainer):
			meta.Maintainer = markerValue(line, markerMaintainer)
		case meta.Description == "" && strings.Contains(line, markerDescription):
			// The description is free text running from the marker to the
			// end of the manifest
			var desc strings.Builder
			desc.WriteString(markerValue(line, markerDescription))
			for scanner.Scan() {
				desc.WriteString("\n")
				desc.WriteString(scanner.Text())
			}
			meta.Description = strings.TrimSpace(desc.String())
		}
	}
	if err := scanner.Err(); err != nil {
		return models.Metadata{}, fmt.Errorf("failed to read manifest: %w", err)
	}

	// Fallbacks for absent fields
	if meta.License == "" {
		meta.License = "Unspecified"
	}
	if meta.Maintainer == "" {
		meta.Maintainer = ident.Origin
	}
	if meta.Description == "" {
		meta.Description = ident.Name
	}
	meta.Summary = firstLine(meta.Description)

	return meta, nil
}

// markerValue extracts the text following a manifest field marker
func markerValue(line, marker string) string {
	_, rest, _ := strings.Cut(line, marker)
	return strings.TrimSpace(rest)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
