package store

import (
	"os"
	"path/filepath"
	"testing"
)

// makePackage creates an installed package directory under root
func makePackage(t *testing.T, root, origin, name, version, release string) string {
	t.Helper()
	dir := filepath.Join(root, origin, name, version, release)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create package dir: %v", err)
	}
	return dir
}

func TestResolveFullIdent(t *testing.T) {
	root, err := os.MkdirTemp("", "pkg2rpm-test-store-")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(root)

	want := makePackage(t, root, "core", "tool", "1.2.3", "20240101120000")

	ident, dir, err := Resolve(root, "core/tool/1.2.3/20240101120000")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if dir != want {
		t.Errorf("Resolve dir = %q, want %q", dir, want)
	}
	if !ident.FullyQualified() {
		t.Errorf("Resolve returned partial ident %+v", ident)
	}
}

func TestResolvePicksLatest(t *testing.T) {
	root, err := os.MkdirTemp("", "pkg2rpm-test-store-")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(root)

	makePackage(t, root, "core", "tool", "1.0.0", "20230101000000")
	makePackage(t, root, "core", "tool", "1.2.0", "20230601000000")
	want := makePackage(t, root, "core", "tool", "1.2.0", "20240101000000")

	ident, dir, err := Resolve(root, "core/tool")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if dir != want {
		t.Errorf("Resolve dir = %q, want %q", dir, want)
	}
	if ident.Version != "1.2.0" || ident.Release != "20240101000000" {
		t.Errorf("Resolve ident = %+v, want latest version and release", ident)
	}
}

func TestResolveMissingPackage(t *testing.T) {
	root, err := os.MkdirTemp("", "pkg2rpm-test-store-")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(root)

	if _, _, err := Resolve(root, "core/absent"); err == nil {
		t.Error("Resolve of missing package must fail")
	}
	if _, _, err := Resolve(root, "not-an-ident"); err == nil {
		t.Error("Resolve of malformed ident must fail")
	}
}
