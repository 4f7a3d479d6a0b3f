package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg2rpm/pkg2rpm/internal/builder"
	"github.com/pkg2rpm/pkg2rpm/internal/models"
	"github.com/pkg2rpm/pkg2rpm/internal/rpmcheck"
	"github.com/pkg2rpm/pkg2rpm/internal/signer"
	"github.com/pkg2rpm/pkg2rpm/internal/specfile"
	"github.com/pkg2rpm/pkg2rpm/internal/stage"
	"github.com/pkg2rpm/pkg2rpm/internal/store"
	"github.com/pkg2rpm/pkg2rpm/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	var config models.BuildConfig

	cmd := &cobra.Command{
		Use:   "export PKG_IDENT",
		Short: "Export one installed package as an RPM",
		Long: `Locates the installed package named by PKG_IDENT (origin/name, with
version and release optional), stages its files into a build root,
renders an RPM spec file and runs rpmbuild over it. The resulting
artifact is verified, optionally GPG-signed, and copied to the results
directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Ident = args[0]

			// Validate configuration
			if err := validateConfig(&config); err != nil {
				return err
			}

			logrus.Infof("Exporting %s...", config.Ident)
			logrus.Debugf("Configuration: %+v", config)

			return RunExport(cmd.Context(), &config)
		},
	}

	// Package selection flags
	cmd.Flags().StringVarP(&config.StoreRoot, "store-root", "s", "/opt/store", "Root of the installed package store")

	// Output flags
	cmd.Flags().StringVarP(&config.ResultsDir, "results-dir", "o", "./results", "Directory receiving the artifact")
	cmd.Flags().StringVar(&config.ArchiveName, "archive", "", "Override for the artifact file name")
	cmd.Flags().StringVar(&config.TestName, "testname", "", "Render the spec file only, under this name")

	// Spec field flags
	cmd.Flags().StringVar(&config.Compression, "compression", "gzip", "Payload compression (none, gzip, xz, zstd)")
	cmd.Flags().StringVar(&config.DistTag, "dist-tag", "", "Distribution tag appended to the release (e.g. el9)")
	cmd.Flags().StringVar(&config.Group, "group", "Applications/System", "RPM group tag")

	// Dependency list flags
	cmd.Flags().StringSliceVar(&config.Conflicts, "conflicts", nil, "Comma-separated Conflicts entries")
	cmd.Flags().StringSliceVar(&config.Requires, "requires", nil, "Comma-separated Requires entries")
	cmd.Flags().StringSliceVar(&config.Provides, "provides", nil, "Comma-separated Provides entries")
	cmd.Flags().StringSliceVar(&config.Obsoletes, "obsoletes", nil, "Comma-separated Obsoletes entries")

	// Lifecycle script flags
	cmd.Flags().StringVar(&config.PreScript, "pre", "", "Path to the %pre scriptlet body")
	cmd.Flags().StringVar(&config.PostScript, "post", "", "Path to the %post scriptlet body")
	cmd.Flags().StringVar(&config.PreunScript, "preun", "", "Path to the %preun scriptlet body")
	cmd.Flags().StringVar(&config.PostunScript, "postun", "", "Path to the %postun scriptlet body")

	// GPG signing flags
	cmd.Flags().StringVarP(&config.GPGKeyPath, "gpg-key", "k", "", "Path to GPG private key")
	cmd.Flags().StringVar(&config.GPGKeyName, "gpg-name", "", "Key uid to sign with when the ring holds several")
	cmd.Flags().StringVarP(&config.GPGPassphrase, "gpg-passphrase", "p", "", "GPG key passphrase")

	// Override flags
	cmd.Flags().StringVar(&config.TemplatePath, "template", "", "Path to a custom spec template")
	cmd.Flags().StringVar(&config.FSDirsPath, "fs-dirs", "", "Path to a custom filesystem-owned directory list")

	return cmd
}

func validateConfig(config *models.BuildConfig) error {
	if config.StoreRoot == "" || !strings.HasPrefix(config.StoreRoot, "/") {
		return &models.ExportError{
			Stage: models.StageConfig,
			Err:   fmt.Errorf("store-root must be an absolute path"),
		}
	}

	if config.ResultsDir == "" {
		return &models.ExportError{
			Stage: models.StageConfig,
			Err:   fmt.Errorf("results-dir is required"),
		}
	}

	if _, err := builder.PayloadDefine(config.Compression); err != nil {
		return &models.ExportError{
			Stage: models.StageConfig,
			Err:   err,
		}
	}

	// Release tags carry a leading dot, but accepting "el9" is friendlier
	if config.DistTag != "" && !strings.HasPrefix(config.DistTag, ".") {
		config.DistTag = "." + config.DistTag
	}

	return nil
}

// RunExport drives the export pipeline for one package
func RunExport(ctx context.Context, config *models.BuildConfig) error {
	// Step 1: Locate the installed package and read its manifest
	ident, pkgDir, err := store.Resolve(config.StoreRoot, config.Ident)
	if err != nil {
		return &models.ExportError{
			Stage: models.StageManifest,
			Ident: config.Ident,
			Err:   err,
		}
	}
	logrus.Infof("Found installed package %s", ident)

	meta, err := store.ReadManifest(pkgDir, ident)
	if err != nil {
		return &models.ExportError{
			Stage: models.StageManifest,
			Ident: ident.String(),
			Err:   err,
		}
	}

	// Step 2: Stage the package tree into a build root
	workDir, err := os.MkdirTemp("", "pkg2rpm-build-")
	if err != nil {
		return &models.ExportError{
			Stage: models.StageStaging,
			Ident: ident.String(),
			Err:   fmt.Errorf("failed to create work directory: %w", err),
		}
	}
	defer os.RemoveAll(workDir)

	fsdirs := stage.DefaultRefList()
	if config.FSDirsPath != "" {
		fsdirs, err = stage.LoadRefList(config.FSDirsPath)
		if err != nil {
			return &models.ExportError{
				Stage: models.StageStaging,
				Ident: ident.String(),
				Err:   err,
			}
		}
	}

	installPrefix := filepath.Join(config.StoreRoot, ident.Origin, ident.Name, ident.Version, ident.Release)
	staged, err := stage.Run(ctx, pkgDir, installPrefix, workDir, fsdirs)
	if err != nil {
		return &models.ExportError{
			Stage: models.StageStaging,
			Ident: ident.String(),
			Err:   err,
		}
	}
	logrus.Infof("Staged %d entries into build root", len(staged.Entries))

	// Step 3: Render the spec file
	specData, err := assembleSpecData(config, ident, meta, staged.Entries)
	if err != nil {
		return &models.ExportError{
			Stage: models.StageSpecRender,
			Ident: ident.String(),
			Err:   err,
		}
	}

	rendered, err := specfile.Render(specData, config.TemplatePath)
	if err != nil {
		return &models.ExportError{
			Stage: models.StageSpecRender,
			Ident: ident.String(),
			Err:   err,
		}
	}

	// Test mode stops after rendering and keeps the spec for inspection
	if config.TestName != "" {
		specPath := filepath.Join(config.ResultsDir, config.TestName+".spec")
		if err := utils.WriteFile(specPath, rendered, 0644); err != nil {
			return &models.ExportError{
				Stage: models.StageSpecRender,
				Ident: ident.String(),
				Err:   err,
			}
		}
		logrus.Infof("Test mode: spec file written to %s", specPath)
		return nil
	}

	specPath := filepath.Join(workDir, "SPECS", specData.Name+".spec")
	if err := utils.WriteFile(specPath, rendered, 0644); err != nil {
		return &models.ExportError{
			Stage: models.StageSpecRender,
			Ident: ident.String(),
			Err:   err,
		}
	}

	// Step 4: Build the RPM
	if err := builder.CheckVersion(ctx); err != nil {
		return &models.ExportError{
			Stage: models.StageBuild,
			Ident: ident.String(),
			Err:   err,
		}
	}

	arch, err := builder.TargetArch()
	if err != nil {
		return &models.ExportError{
			Stage: models.StageBuild,
			Ident: ident.String(),
			Err:   err,
		}
	}

	payload, _ := builder.PayloadDefine(config.Compression)
	artifact, err := builder.Build(ctx, builder.Options{
		SpecPath:  specPath,
		BuildRoot: staged.BuildRoot,
		Target:    arch,
		Defines: map[string]string{
			"_topdir":         workDir,
			"_binary_payload": payload,
		},
	})
	if err != nil {
		return &models.ExportError{
			Stage: models.StageBuild,
			Ident: ident.String(),
			Err:   err,
		}
	}

	// Step 5: Sign the artifact if a key was supplied
	if config.GPGKeyPath != "" {
		rpmSigner, err := signer.NewRPMSigner(config.GPGKeyPath, config.GPGKeyName, config.GPGPassphrase)
		if err != nil {
			return &models.ExportError{
				Stage: models.StageSigning,
				Ident: ident.String(),
				Err:   fmt.Errorf("failed to initialize signer: %w", err),
			}
		}
		if err := rpmSigner.SignPackage(artifact); err != nil {
			return &models.ExportError{
				Stage: models.StageSigning,
				Ident: ident.String(),
				Err:   err,
			}
		}
	}

	// Step 6: Verify and publish
	if err := rpmcheck.Verify(artifact, specData.Name, specData.Version, specData.FullRelease(), arch); err != nil {
		return &models.ExportError{
			Stage: models.StageVerify,
			Ident: ident.String(),
			Err:   err,
		}
	}

	result, err := builder.Publish(artifact, config.ResultsDir, config.ArchiveName, ident)
	if err != nil {
		return &models.ExportError{
			Stage: models.StageBuild,
			Ident: ident.String(),
			Err:   err,
		}
	}

	logrus.Infof("Export completed successfully!")
	logrus.Infof("Artifact: %s (sha256 %s)", result.Artifact, result.SHA256)
	return nil
}

// assembleSpecData merges manifest metadata, CLI overrides and the staged
// file manifest into the renderer input
func assembleSpecData(config *models.BuildConfig, ident models.PackageIdent, meta models.Metadata, entries []stage.Entry) (*specfile.Data, error) {
	data := &specfile.Data{
		Name:        store.SafeName(ident.Name),
		Version:     store.SafeVersion(ident.Version),
		Release:     ident.Release,
		DistTag:     config.DistTag,
		Summary:     meta.Summary,
		Description: meta.Description,
		License:     meta.License,
		URL:         meta.UpstreamURL,
		Group:       config.Group,
		Packager:    meta.Maintainer,
		Conflicts:   config.Conflicts,
		Requires:    config.Requires,
		Provides:    config.Provides,
		Obsoletes:   config.Obsoletes,
		Files:       specfile.FileLines(entries),
	}

	var err error
	if data.Pre, err = specfile.LoadScriptlet(config.PreScript); err != nil {
		return nil, err
	}
	if data.Post, err = specfile.LoadScriptlet(config.PostScript); err != nil {
		return nil, err
	}
	if data.Preun, err = specfile.LoadScriptlet(config.PreunScript); err != nil {
		return nil, err
	}
	if data.Postun, err = specfile.LoadScriptlet(config.PostunScript); err != nil {
		return nil, err
	}

	return data, nil
}
