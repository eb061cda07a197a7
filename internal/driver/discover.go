package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Layout names the folders missions live in. Flat folders hold missions
// directly; nested folders hold groups (campaigns, theatres) of missions.
type Layout struct {
	Flat   []string `toml:"flat"`
	Nested []string `toml:"nested"`
}

func DefaultLayout() Layout {
	return Layout{
		Flat:   []string{"contracts", "specials"},
		Nested: []string{"campaigns", "theatres"},
	}
}

// Mission is a discovered mission folder.
type Mission struct {
	// Dir is the folder path (root joined with the layout-relative path).
	Dir string
	// Name is the layout-relative path with forward slashes.
	Name string
	// Nested is set for missions found inside a nested folder.
	Nested bool
}

// Discover lists mission folders under root. When filters are given a
// mission is kept if its relative path contains any of them. Missing
// layout folders are skipped.
func Discover(root string, layout Layout, filters []string) ([]Mission, error) {
	var out []Mission
	add := func(rel string, nested bool) {
		name := filepath.ToSlash(rel)
		if len(filters) > 0 && !matchesAny(name, filters) {
			return
		}
		out = append(out, Mission{Dir: filepath.Join(root, rel), Name: name, Nested: nested})
	}

	for _, folder := range layout.Flat {
		dirs, err := subdirs(filepath.Join(root, folder))
		if err != nil {
			return nil, err
		}
		for _, d := range dirs {
			add(filepath.Join(folder, d), false)
		}
	}
	for _, folder := range layout.Nested {
		groups, err := subdirs(filepath.Join(root, folder))
		if err != nil {
			return nil, err
		}
		for _, g := range groups {
			dirs, err := subdirs(filepath.Join(root, folder, g))
			if err != nil {
				return nil, err
			}
			for _, d := range dirs {
				add(filepath.Join(folder, g, d), true)
			}
		}
	}
	return out, nil
}

// subdirs returns the sorted names of directories inside dir.
func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func matchesAny(name string, filters []string) bool {
	for _, f := range filters {
		if strings.Contains(name, filepath.ToSlash(f)) {
			return true
		}
	}
	return false
}
