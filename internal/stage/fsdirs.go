package stage

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// defaultFSDirs lists the directories owned by the base filesystem package.
// Staged directories found here must not be claimed by the generated
// package or rpm would report ownership conflicts on install.
// The slice is kept sorted so membership checks can binary search.
var defaultFSDirs = []string{
	"/",
	"/bin",
	"/boot",
	"/dev",
	"/etc",
	"/home",
	"/lib",
	"/lib64",
	"/media",
	"/mnt",
	"/opt",
	"/proc",
	"/root",
	"/run",
	"/sbin",
	"/srv",
	"/sys",
	"/tmp",
	"/usr",
	"/usr/bin",
	"/usr/include",
	"/usr/lib",
	"/usr/lib64",
	"/usr/libexec",
	"/usr/local",
	"/usr/local/bin",
	"/usr/local/lib",
	"/usr/sbin",
	"/usr/share",
	"/usr/share/doc",
	"/usr/share/man",
	"/usr/src",
	"/var",
	"/var/cache",
	"/var/lib",
	"/var/log",
	"/var/run",
	"/var/spool",
	"/var/tmp",
}

// RefList is a sorted list of filesystem-owned directories
type RefList struct {
	dirs []string
}

// DefaultRefList returns the built-in filesystem directory list
func DefaultRefList() *RefList {
	return &RefList{dirs: defaultFSDirs}
}

// LoadRefList reads a directory list from a file, one absolute path per
// line. Blank lines and lines starting with '#' are ignored. The result is
// sorted regardless of input order.
func LoadRefList(path string) (*RefList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory list: %w", err)
	}
	defer f.Close()

	var dirs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasPrefix(line, "/") {
			return nil, fmt.Errorf("directory list entry %q is not absolute", line)
		}
		dirs = append(dirs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read directory list: %w", err)
	}
	if len(dirs) == 0 {
		return nil, fmt.Errorf("directory list %s is empty", path)
	}

	sort.Strings(dirs)
	return &RefList{dirs: dirs}, nil
}

// Contains reports whether dir is owned by the base filesystem package
func (l *RefList) Contains(dir string) bool {
	i := sort.SearchStrings(l.dirs, dir)
	return i < len(l.dirs) && l.dirs[i] == dir
}

// Len returns the number of reference entries
func (l *RefList) Len() int {
	return len(l.dirs)
}
