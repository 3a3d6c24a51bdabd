// Package workspace builds the component database: a mapping from
// component id to manifest path, discovered by recursively scanning a
// workspace directory (and an optional shared-components directory)
// for manifest files.
package workspace

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/anvilbuild/anvil/internal/manifest"
	"github.com/anvilbuild/anvil/internal/output"
)

// ManifestFilename is the name a component manifest file must have to
// be discovered by a workspace scan.
const ManifestFilename = "component.yaml"

// Database maps a component id to the manifest path that defines it
// and the directory scan roots that produced it.
type Database struct {
	roots   []string
	entries map[string]string // id -> manifest path
}

// NewDatabase builds an empty, unscanned database over the given roots.
// Roots are scanned in order; a later root's component with the same id
// as an earlier one's overwrites it (shared-components directories are
// expected to be scanned after the workspace root).
func NewDatabase(roots ...string) *Database {
	return &Database{roots: roots, entries: map[string]string{}}
}

// Rescan clears and rebuilds the database by walking every root.
func (db *Database) Rescan() error {
	db.entries = map[string]string{}
	for _, root := range db.roots {
		if err := db.scanRoot(root); err != nil {
			return err
		}
	}
	return nil
}

func (db *Database) scanRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return nil
	}

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Name() != ManifestFilename {
			return nil
		}

		m, loadErr := manifest.Load(path)
		if loadErr != nil {
			output.Warn("skipping unparsable manifest", "path", path, "error", loadErr)
			return nil
		}
		db.entries[m.ID] = path
		return nil
	})
}

// Lookup returns the manifest path for a component id, and whether it was found.
func (db *Database) Lookup(id string) (string, bool) {
	path, ok := db.entries[id]
	return path, ok
}

// Load parses and returns the manifest for a component id.
func (db *Database) Load(id string) (*manifest.Manifest, error) {
	path, ok := db.Lookup(id)
	if !ok {
		return nil, nil
	}
	return manifest.Load(path)
}

// IDs returns every known component id, sorted.
func (db *Database) IDs() []string {
	ids := make([]string, 0, len(db.entries))
	for id := range db.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of components known to the database.
func (db *Database) Len() int { return len(db.entries) }
