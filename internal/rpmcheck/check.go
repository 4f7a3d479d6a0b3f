package rpmcheck

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/sassoftware/go-rpmutils"
	"github.com/sirupsen/logrus"
	"github.com/ulikunitz/xz"
)

// RPM packages start with 0xED 0xAB 0xEE 0xDB
var rpmMagic = []byte{0xED, 0xAB, 0xEE, 0xDB}

// cpio newc archives start with one of these magics
var cpioMagics = [][]byte{
	[]byte("070701"),
	[]byte("070702"),
}

// Verify confirms the built artifact is a well-formed RPM whose header
// matches the exported package: lead magic, NAME/VERSION/RELEASE/ARCH tags,
// and a readable payload under the advertised compressor. wantRelease is
// the release as rendered into the spec, dist tag included.
func Verify(path, wantName, wantVersion, wantRelease, wantArch string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open artifact: %w", err)
	}
	defer f.Close()

	magic := make([]byte, len(rpmMagic))
	if _, err := io.ReadFull(f, magic); err != nil {
		return fmt.Errorf("failed to read artifact lead: %w", err)
	}
	if !bytes.Equal(magic, rpmMagic) {
		return fmt.Errorf("artifact %s is not an RPM package", path)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}

	rpm, err := rpmutils.ReadRpm(f)
	if err != nil {
		return fmt.Errorf("failed to read RPM header: %w", err)
	}

	checks := []struct {
		tag  int
		want string
	}{
		{rpmutils.NAME, wantName},
		{rpmutils.VERSION, wantVersion},
		{rpmutils.RELEASE, wantRelease},
		{rpmutils.ARCH, wantArch},
	}
	for _, c := range checks {
		got, err := rpm.Header.GetString(c.tag)
		if err != nil {
			return fmt.Errorf("failed to read header tag %d: %w", c.tag, err)
		}
		if got != c.want {
			return fmt.Errorf("artifact header tag %d is %q, expected %q", c.tag, got, c.want)
		}
	}

	// The reader now sits at the payload; the compressor tag says how to
	// open it
	compressor, err := rpm.Header.GetString(rpmutils.PAYLOADCOMPRESSOR)
	if err != nil {
		compressor = ""
	}
	if err := probePayload(f, compressor); err != nil {
		return fmt.Errorf("artifact payload check failed: %w", err)
	}

	logrus.Debugf("Verified artifact %s (payload compressor %q)", path, compressor)
	return nil
}

// probePayload decompresses the start of the payload and confirms a cpio
// entry header is readable
func probePayload(r io.Reader, compressor string) error {
	var (
		payload io.Reader
		err     error
	)

	switch compressor {
	case "", "none":
		payload = r
	case "gzip":
		payload, err = gzip.NewReader(r)
	case "xz":
		payload, err = xz.NewReader(r)
	case "zstd":
		var dec *zstd.Decoder
		dec, err = zstd.NewReader(r)
		if err == nil {
			defer dec.Close()
			payload = dec
		}
	default:
		return fmt.Errorf("unsupported payload compressor %q", compressor)
	}
	if err != nil {
		return fmt.Errorf("failed to open %s payload: %w", compressor, err)
	}

	magic := make([]byte, 6)
	if _, err := io.ReadFull(payload, magic); err != nil {
		return fmt.Errorf("failed to read payload: %w", err)
	}
	for _, want := range cpioMagics {
		if bytes.Equal(magic, want) {
			return nil
		}
	}
	return fmt.Errorf("payload does not start with a cpio entry, got %q", magic)
}
