package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions are the file extensions scanned when none are
// configured.
var DefaultExtensions = []string{".php", ".phtml", ".inc", ".php5", ".php7"}

// listFiles walks the configured roots and returns the relative paths of
// candidate PHP files, sorted. Excludes are glob patterns matched against
// the base name, the relative path, and individual path segments (a
// matching directory prunes its whole subtree).
func listFiles(opts Options) ([]string, error) {
	root := opts.RootDir
	if strings.TrimSpace(root) == "" {
		root = "."
	}
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	extSet := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		extSet[e] = struct{}{}
	}

	starts := opts.Paths
	if len(starts) == 0 {
		starts = []string{"."}
	}

	seen := make(map[string]struct{})
	var out []string
	for _, p := range starts {
		startAbs := filepath.Join(root, p)
		info, err := os.Stat(startAbs)
		if err != nil {
			return nil, fmt.Errorf("path %s: %w", p, err)
		}
		if !info.IsDir() {
			rel, err := filepath.Rel(root, startAbs)
			if err != nil {
				return nil, err
			}
			rel = filepath.ToSlash(rel)
			if _, dup := seen[rel]; !dup {
				seen[rel] = struct{}{}
				out = append(out, rel)
			}
			continue
		}
		err = filepath.WalkDir(startAbs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			rel = filepath.ToSlash(rel)
			if d.IsDir() {
				if rel != "." && excluded(rel, opts.Excludes) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if _, ok := extSet[strings.ToLower(filepath.Ext(rel))]; !ok {
				return nil
			}
			if excluded(rel, opts.Excludes) {
				return nil
			}
			if _, dup := seen[rel]; !dup {
				seen[rel] = struct{}{}
				out = append(out, rel)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(out)
	return out, nil
}

func excluded(rel string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	base := filepath.Base(rel)
	segments := strings.Split(rel, "/")
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		for _, seg := range segments {
			if ok, _ := filepath.Match(pattern, seg); ok {
				return true
			}
		}
	}
	return false
}
