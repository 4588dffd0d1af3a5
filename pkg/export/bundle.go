package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mholt/archiver"
)

// Bundle archives every non-hidden file in dir into dest. The archive
// format follows the extension of dest (.zip, .tar.gz, .tar.xz and the
// other formats the archiver supports).
func Bundle(dir, dest string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("bundle: read %s: %w", dir, err)
	}

	absDest, _ := filepath.Abs(dest)
	var sources []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if abs, _ := filepath.Abs(path); abs == absDest {
			continue
		}
		sources = append(sources, path)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("bundle: %s holds no files", dir)
	}
	sort.Strings(sources)

	if err := archiver.Archive(sources, dest); err != nil {
		return nil, fmt.Errorf("bundle: %w", err)
	}
	log.Info("bundled outputs", "files", len(sources), "archive", dest)
	return sources, nil
}
