package config

import (
	"os"
	"path/filepath"
	"strings"
)

// outlineSuffixes mark a file as an outline document during discovery.
var outlineSuffixes = []string{".outline.yaml", ".outline.yml", ".outline.json", ".outline.toml"}

// IsOutlineFile reports whether name carries an outline suffix.
func IsOutlineFile(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range outlineSuffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// DiscoverOutlines returns the configured outline followed by every outline
// file found under the discovery scan paths, without duplicates. Relative
// paths are taken relative to the config's project directory.
func DiscoverOutlines(cfg Config) []string {
	seen := make(map[string]bool)
	var result []string

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			result = append(result, p)
		}
	}

	if cfg.Outline != "" {
		add(cfg.resolve(cfg.Outline))
	}

	maxDepth := cfg.Discovery.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 3
	}
	for _, scanPath := range cfg.Discovery.ScanPaths {
		for _, f := range scanForOutlines(cfg.resolve(scanPath), maxDepth) {
			add(f)
		}
	}

	return result
}

// resolve expands ~ and anchors relative paths at the project directory (the
// parent of the config directory).
func (c *Config) resolve(p string) string {
	p = expandHome(p)
	if filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(filepath.Dir(c.Dir), p)
}

// scanForOutlines walks a directory tree up to maxDepth levels deep,
// collecting outline files. Hidden directories are skipped.
func scanForOutlines(root string, maxDepth int) []string {
	root = expandHome(root)
	var results []string

	rootDepth := strings.Count(filepath.Clean(root), string(filepath.Separator))

	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return filepath.SkipDir
		}
		currentDepth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - rootDepth

		if !d.IsDir() {
			if currentDepth <= maxDepth && IsOutlineFile(d.Name()) {
				results = append(results, path)
			}
			return nil
		}

		if currentDepth > maxDepth {
			return filepath.SkipDir
		}
		name := d.Name()
		if path != root && strings.HasPrefix(name, ".") {
			return filepath.SkipDir
		}
		return nil
	})

	return results
}

// DetectCurrentProject attempts to find the current project by walking
// up from the current directory looking for .flattree/.
func DetectCurrentProject() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return findRoot(dir)
}

// findRoot walks up from dir looking for a .flattree/ directory.
func findRoot(dir string) (string, bool) {
	home, _ := os.UserHomeDir()

	for {
		cfgDir := filepath.Join(dir, DirName)
		if info, err := os.Stat(cfgDir); err == nil && info.IsDir() {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached filesystem root
		}
		// Don't go above home directory
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}
