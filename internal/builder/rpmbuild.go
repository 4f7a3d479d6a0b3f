package builder

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"
)

const (
	rpmBuildProgram = "rpmbuild"

	// minSupportedMajor is the oldest rpmbuild able to consume the
	// generated spec and pre-staged build root
	minSupportedMajor = 4
)

var goArchToRpmArch = map[string]string{
	"amd64": "x86_64",
	"arm64": "aarch64",
	"386":   "i686",
}

// Output from rpmbuild names the produced artifact in a line of the form:
//
//	Wrote: /path/to/RPMS/x86_64/name-version-release.x86_64.rpm
var wroteRegex = regexp.MustCompile(`Wrote: (.+\.rpm)`)

var versionRegex = regexp.MustCompile(`RPM version (\d+)\.(\d+)`)

// Options describes one rpmbuild invocation
type Options struct {
	SpecPath  string
	BuildRoot string
	Target    string
	Defines   map[string]string
}

// TargetArch converts the running GOARCH into an RPM target architecture
func TargetArch() (string, error) {
	arch, ok := goArchToRpmArch[runtime.GOARCH]
	if !ok {
		return "", fmt.Errorf("unknown GOARCH detected (%s)", runtime.GOARCH)
	}
	return arch, nil
}

// PayloadDefine maps a compression choice to the rpmbuild _binary_payload
// define value
func PayloadDefine(compression string) (string, error) {
	switch compression {
	case "", "gzip":
		return "w9.gzdio", nil
	case "xz":
		return "w6.xzdio", nil
	case "zstd":
		return "w19.zstdio", nil
	case "none":
		return "w.ufdio", nil
	default:
		return "", fmt.Errorf("unsupported compression %q, expected none, gzip, xz or zstd", compression)
	}
}

// CheckVersion verifies a supported rpmbuild is installed
func CheckVersion(ctx context.Context) error {
	out, err := exec.CommandContext(ctx, rpmBuildProgram, "--version").CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s is not available: %w", rpmBuildProgram, err)
	}

	major, err := parseToolVersion(string(out))
	if err != nil {
		return err
	}
	if major < minSupportedMajor {
		return fmt.Errorf("unsupported %s version %d, need %d or newer", rpmBuildProgram, major, minSupportedMajor)
	}

	logrus.Debugf("Found %s major version %d", rpmBuildProgram, major)
	return nil
}

// parseToolVersion extracts the major version from `rpmbuild --version` output
func parseToolVersion(output string) (int, error) {
	matches := versionRegex.FindStringSubmatch(output)
	if len(matches) != 3 {
		return 0, fmt.Errorf("unexpected output from '%s --version': %q", rpmBuildProgram, output)
	}
	return strconv.Atoi(matches[1])
}

// Build runs rpmbuild over the staged root and returns the path of the
// artifact it wrote
func Build(ctx context.Context, opts Options) (string, error) {
	extra := []string{
		"-bb",
		"--buildroot", opts.BuildRoot,
		"--target", opts.Target,
	}
	args := formatArgs(extra, opts.SpecPath, opts.Defines)

	logrus.Debugf("Running %s %v", rpmBuildProgram, args)
	out, err := exec.CommandContext(ctx, rpmBuildProgram, args...).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s failed: %w\n%s", rpmBuildProgram, err, out)
	}

	artifact, err := parseWroteLine(string(out))
	if err != nil {
		return "", err
	}

	logrus.Infof("Built %s", artifact)
	return artifact, nil
}

// formatArgs assembles an rpmbuild argument list: extra flags, -D defines
// in stable order, then the spec file
func formatArgs(extra []string, specPath string, defines map[string]string) []string {
	args := append([]string{}, extra...)

	keys := make([]string, 0, len(defines))
	for k := range defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-D", fmt.Sprintf("%s %s", k, defines[k]))
	}

	return append(args, specPath)
}

// parseWroteLine extracts the artifact path from rpmbuild output
func parseWroteLine(output string) (string, error) {
	matches := wroteRegex.FindStringSubmatch(output)
	if len(matches) != 2 {
		return "", fmt.Errorf("failed to find written artifact in %s output:\n%s", rpmBuildProgram, output)
	}
	return matches[1], nil
}
