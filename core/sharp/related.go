package sharp

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindRelated lists sibling files sharing the given file's stem, e.g. the
// RAW and sidecar files shot alongside a JPEG. The file itself is excluded
// and results are sorted. Only the file's own directory is searched.
func FindRelated(path string) ([]string, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var related []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == base {
			continue
		}
		if strings.TrimSuffix(name, filepath.Ext(name)) == stem {
			related = append(related, filepath.Join(dir, name))
		}
	}
	sort.Strings(related)
	return related, nil
}
