package specfile

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/pkg2rpm/pkg2rpm/internal/stage"
)

// Data holds every field the spec template is filled with
type Data struct {
	Name    string
	Version string
	Release string
	DistTag string

	Summary     string
	Description string
	License     string
	URL         string
	Group       string
	Packager    string

	Conflicts []string
	Requires  []string
	Provides  []string
	Obsoletes []string

	Pre    string
	Post   string
	Preun  string
	Postun string

	// Pre-rendered %files lines, see FileLines
	Files []string
}

// FullRelease returns the release with the distribution tag appended,
// matching the Release header the built-in template renders
func (d *Data) FullRelease() string {
	return d.Release + d.DistTag
}

// Render fills the spec template with d. An empty templatePath selects the
// built-in template.
func Render(d *Data, templatePath string) ([]byte, error) {
	text := defaultTemplate
	if templatePath != "" {
		raw, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read spec template: %w", err)
		}
		text = string(raw)
	}

	tmpl, err := template.New("spec").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse spec template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("failed to render spec: %w", err)
	}

	return buf.Bytes(), nil
}

// FileLines converts the staged file manifest into %files section lines.
// Directories owned by the base filesystem package are omitted, package
// directories are claimed with %dir, everything else is listed verbatim.
// Paths are quoted since store releases may contain arbitrary characters.
func FileLines(entries []stage.Entry) []string {
	var lines []string
	for _, e := range entries {
		switch {
		case e.IsDir && e.FSOwned:
			// owned by the filesystem package
		case e.IsDir:
			lines = append(lines, fmt.Sprintf("%%dir %q", e.Path))
		default:
			lines = append(lines, fmt.Sprintf("%q", e.Path))
		}
	}
	return lines
}

// LoadScriptlet reads a lifecycle script body from path. An empty path
// yields an empty scriptlet; a configured but missing file is an error.
func LoadScriptlet(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read lifecycle script %s: %w", path, err)
	}
	return strings.TrimRight(string(raw), "\n"), nil
}
