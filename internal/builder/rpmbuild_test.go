package builder

import (
	"reflect"
	"testing"
)

func TestPayloadDefine(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "w9.gzdio"},
		{"gzip", "w9.gzdio"},
		{"xz", "w6.xzdio"},
		{"zstd", "w19.zstdio"},
		{"none", "w.ufdio"},
	}
	for _, c := range cases {
		got, err := PayloadDefine(c.in)
		if err != nil {
			t.Errorf("PayloadDefine(%q) error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("PayloadDefine(%q) = %q, want %q", c.in, got, c.want)
		}
	}

	if _, err := PayloadDefine("bzip2"); err == nil {
		t.Error("PayloadDefine must reject unsupported compression")
	}
}

func TestParseToolVersion(t *testing.T) {
	major, err := parseToolVersion("RPM version 4.19.1.1\n")
	if err != nil {
		t.Fatalf("parseToolVersion failed: %v", err)
	}
	if major != 4 {
		t.Errorf("major = %d, want 4", major)
	}

	major, err = parseToolVersion("RPM version 3.0.6\n")
	if err != nil {
		t.Fatalf("parseToolVersion failed: %v", err)
	}
	if major != 3 {
		t.Errorf("major = %d, want 3", major)
	}

	if _, err := parseToolVersion("rpmbuild: command not found"); err == nil {
		t.Error("parseToolVersion must reject unexpected output")
	}
}

func TestFormatArgs(t *testing.T) {
	args := formatArgs(
		[]string{"-bb", "--buildroot", "/tmp/root"},
		"/tmp/SPECS/tool.spec",
		map[string]string{
			"_topdir":         "/tmp/top",
			"_binary_payload": "w9.gzdio",
		},
	)

	want := []string{
		"-bb", "--buildroot", "/tmp/root",
		"-D", "_binary_payload w9.gzdio",
		"-D", "_topdir /tmp/top",
		"/tmp/SPECS/tool.spec",
	}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("formatArgs = %v, want %v", args, want)
	}
}

func TestParseWroteLine(t *testing.T) {
	out := `Processing files: tool-1.2.3-20240101120000.x86_64
Wrote: /tmp/top/RPMS/x86_64/tool-1.2.3-20240101120000.x86_64.rpm
Executing(%clean): /bin/sh -e
`
	artifact, err := parseWroteLine(out)
	if err != nil {
		t.Fatalf("parseWroteLine failed: %v", err)
	}
	if artifact != "/tmp/top/RPMS/x86_64/tool-1.2.3-20240101120000.x86_64.rpm" {
		t.Errorf("artifact = %q", artifact)
	}

	if _, err := parseWroteLine("error: something broke"); err == nil {
		t.Error("parseWroteLine must fail without a Wrote line")
	}
}
