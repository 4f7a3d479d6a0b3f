package builder

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg2rpm/pkg2rpm/internal/models"
	"github.com/pkg2rpm/pkg2rpm/internal/utils"
	"github.com/sirupsen/logrus"
)

// summaryFile records the outcome of the most recent export in the results
// directory, one key=value pair per line
const summaryFile = "last_build.env"

// Result describes the published artifact
type Result struct {
	Artifact string
	SHA256   string
	Size     int64
}

// Publish copies the built artifact into the results directory under its
// final name and writes the build summary next to it
func Publish(artifact, resultsDir, archiveName string, ident models.PackageIdent) (*Result, error) {
	name := archiveName
	if name == "" {
		name = filepath.Base(artifact)
	} else if !strings.HasSuffix(name, ".rpm") {
		name += ".rpm"
	}

	dst := filepath.Join(resultsDir, name)
	if err := utils.CopyFile(artifact, dst); err != nil {
		return nil, fmt.Errorf("failed to copy artifact to results: %w", err)
	}

	sums, err := utils.CalculateChecksums(dst)
	if err != nil {
		return nil, fmt.Errorf("failed to checksum artifact: %w", err)
	}

	summary := fmt.Sprintf(
		"pkg_origin=%s\npkg_name=%s\npkg_version=%s\npkg_release=%s\npkg_artifact=%s\npkg_sha256sum=%s\n",
		ident.Origin, ident.Name, ident.Version, ident.Release, name, sums.SHA256,
	)
	summaryPath := filepath.Join(resultsDir, summaryFile)
	if err := utils.WriteFile(summaryPath, []byte(summary), 0644); err != nil {
		return nil, fmt.Errorf("failed to write build summary: %w", err)
	}

	logrus.Infof("Artifact published to: %s", dst)
	return &Result{Artifact: dst, SHA256: sums.SHA256, Size: sums.Size}, nil
}
