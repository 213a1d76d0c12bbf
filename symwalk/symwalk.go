// Package symwalk collects renderable files below a set of roots, following
// symbolic links to directories.
package symwalk

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions are the file extensions collected from directories when
// Options.Extensions is empty.
var DefaultExtensions = []string{".ansi", ".log", ".out", ".txt"}

type Options struct {
	Extensions    []string // matched case-insensitively, with the leading dot
	IncludeHidden bool     // descend into dot-directories and keep dot-files
}

// Collect expands roots into a sorted, de-duplicated list of files. A root that
// is a file is always kept; files found inside directories must match one of
// the extensions. Paths keep the symlink-based prefix they were reached through.
// Symlink loops are cut by tracking the real path of every visited directory.
func Collect(roots []string, opts Options) ([]string, error) {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	c := &collector{
		exts:    exts,
		hidden:  opts.IncludeHidden,
		visited: make(map[string]bool),
		seen:    make(map[string]bool),
	}
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			c.add(root)
			continue
		}
		if err := c.walk(root); err != nil {
			return nil, err
		}
	}
	sort.Strings(c.files)
	return c.files, nil
}

type collector struct {
	exts    []string
	hidden  bool
	visited map[string]bool
	seen    map[string]bool
	files   []string
}

func (c *collector) add(path string) {
	if c.seen[path] {
		return
	}
	c.seen[path] = true
	c.files = append(c.files, path)
}

func (c *collector) walk(dir string) error {
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dir, err)
	}
	if c.visited[real] {
		return nil
	}
	c.visited[real] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}
	for _, e := range entries {
		name := e.Name()
		if !c.hidden && strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)

		isDir := e.IsDir()
		if e.Type()&os.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				// Dangling links are skipped rather than failing the whole walk.
				continue
			}
			isDir = info.IsDir()
		}

		if isDir {
			if err := c.walk(path); err != nil {
				return err
			}
			continue
		}
		if c.matches(name) {
			c.add(path)
		}
	}
	return nil
}

func (c *collector) matches(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range c.exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
