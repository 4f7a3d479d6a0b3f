package specfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg2rpm/pkg2rpm/internal/stage"
)

func baseData() *Data {
	return &Data{
		Name:        "tool",
		Version:     "1.2.3",
		Release:     "20240101120000",
		Summary:     "A sample tool",
		Description: "A sample tool",
		License:     "Apache-2.0",
		Group:       "Applications/System",
		Packager:    "core",
	}
}

func countLines(spec, prefix string) int {
	n := 0
	for _, line := range strings.Split(spec, "\n") {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

func TestRenderDependencyLines(t *testing.T) {
	d := baseData()
	d.Requires = []string{"glibc", "openssl >= 3.0"}
	d.Conflicts = []string{"oldtool"}

	out, err := Render(d, "")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	spec := string(out)

	if got := countLines(spec, "Requires: "); got != 2 {
		t.Errorf("Requires lines = %d, want 2", got)
	}
	if !strings.Contains(spec, "Requires: openssl >= 3.0\n") {
		t.Error("Missing Requires line for openssl")
	}
	if got := countLines(spec, "Conflicts: "); got != 1 {
		t.Errorf("Conflicts lines = %d, want exactly 1", got)
	}
	if got := countLines(spec, "Provides: "); got != 0 {
		t.Errorf("Provides lines = %d, want 0", got)
	}
}

func TestRenderHeaderFields(t *testing.T) {
	d := baseData()
	d.DistTag = ".el9"
	d.URL = "https://example.org/tool"

	out, err := Render(d, "")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	spec := string(out)

	for _, want := range []string{
		"Name: tool\n",
		"Version: 1.2.3\n",
		"Release: 20240101120000.el9\n",
		"License: Apache-2.0\n",
		"URL: https://example.org/tool\n",
		"AutoReqProv: no\n",
	} {
		if !strings.Contains(spec, want) {
			t.Errorf("Spec missing %q", want)
		}
	}
}

func TestFullReleaseMatchesRenderedHeader(t *testing.T) {
	d := baseData()
	d.DistTag = ".el9"

	out, err := Render(d, "")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// The release handed to artifact verification must be the exact string
	// the template bakes into the Release header, dist tag included
	if d.FullRelease() != "20240101120000.el9" {
		t.Errorf("FullRelease() = %q, want 20240101120000.el9", d.FullRelease())
	}
	if !strings.Contains(string(out), "Release: "+d.FullRelease()+"\n") {
		t.Errorf("Rendered Release header does not match FullRelease %q", d.FullRelease())
	}

	d.DistTag = ""
	if d.FullRelease() != "20240101120000" {
		t.Errorf("FullRelease() without dist tag = %q", d.FullRelease())
	}
}

func TestRenderOmitsEmptyURL(t *testing.T) {
	out, err := Render(baseData(), "")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Contains(string(out), "URL:") {
		t.Error("Spec must not carry an empty URL tag")
	}
}

func TestRenderScriptlets(t *testing.T) {
	d := baseData()
	d.Post = "ldconfig"

	out, err := Render(d, "")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	spec := string(out)

	if !strings.Contains(spec, "%post\nldconfig\n") {
		t.Error("Spec missing the post scriptlet body")
	}
	for _, absent := range []string{"%pre\n", "%preun\n", "%postun\n"} {
		if strings.Contains(spec, absent) {
			t.Errorf("Spec has unexpected %s section", strings.TrimSpace(absent))
		}
	}
}

func TestRenderCustomTemplate(t *testing.T) {
	dir, err := os.MkdirTemp("", "pkg2rpm-test-tmpl-")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "custom.spec.tmpl")
	if err := os.WriteFile(path, []byte("Name: {{.Name}} ({{.Release}})\n"), 0644); err != nil {
		t.Fatalf("Failed to write template: %v", err)
	}

	out, err := Render(baseData(), path)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if string(out) != "Name: tool (20240101120000)\n" {
		t.Errorf("Custom template output = %q", out)
	}

	if _, err := Render(baseData(), filepath.Join(dir, "missing.tmpl")); err == nil {
		t.Error("Render with missing template must fail")
	}
}

func TestFileLines(t *testing.T) {
	entries := []stage.Entry{
		{Path: "/opt", IsDir: true, FSOwned: true},
		{Path: "/opt/store", IsDir: true},
		{Path: "/opt/store/core", IsDir: true},
		{Path: "/opt/store/core/tool.bin"},
	}

	lines := FileLines(entries)
	want := []string{
		`%dir "/opt/store"`,
		`%dir "/opt/store/core"`,
		`"/opt/store/core/tool.bin"`,
	}
	if len(lines) != len(want) {
		t.Fatalf("FileLines returned %d lines, want %d: %v", len(lines), len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("FileLines[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestLoadScriptlet(t *testing.T) {
	dir, err := os.MkdirTemp("", "pkg2rpm-test-script-")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "post.sh")
	if err := os.WriteFile(path, []byte("ldconfig\n"), 0755); err != nil {
		t.Fatalf("Failed to write script: %v", err)
	}

	body, err := LoadScriptlet(path)
	if err != nil {
		t.Fatalf("LoadScriptlet failed: %v", err)
	}
	if body != "ldconfig" {
		t.Errorf("LoadScriptlet = %q", body)
	}

	if body, err := LoadScriptlet(""); err != nil || body != "" {
		t.Errorf("LoadScriptlet(\"\") = %q, %v", body, err)
	}

	if _, err := LoadScriptlet(filepath.Join(dir, "missing.sh")); err == nil {
		t.Error("LoadScriptlet with missing file must fail")
	}
}
