// Package loader provides outline loading and file discovery utilities.
// This file handles .gitignore parsing and automatic .gitignore management
// for the .flattree directory.
package loader

import (
	"bufio"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// stateDirEntry is the .gitignore line that keeps local state out of git.
const stateDirEntry = ".flattree/"

// IgnoreRules is a parsed .gitignore. Later rules override earlier ones and
// "!" re-includes a path.
type IgnoreRules struct {
	rules []ignoreRule
}

type ignoreRule struct {
	g        glob.Glob
	negate   bool
	dirOnly  bool
	anchored bool
}

// ParseIgnore reads .gitignore syntax from r. Blank lines, comments and
// patterns that fail to compile are skipped.
func ParseIgnore(r io.Reader) (*IgnoreRules, error) {
	rules := &IgnoreRules{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var rule ignoreRule
		if strings.HasPrefix(line, "!") {
			rule.negate = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			rule.dirOnly = true
			line = strings.TrimRight(line, "/")
		}
		if strings.HasPrefix(line, "/") {
			rule.anchored = true
			line = strings.TrimLeft(line, "/")
		} else if strings.Contains(line, "/") {
			rule.anchored = true
		}
		if line == "" {
			continue
		}

		g, err := glob.Compile(line, '/')
		if err != nil {
			continue
		}
		rule.g = g
		rules.rules = append(rules.rules, rule)
	}
	return rules, scanner.Err()
}

// LoadIgnore parses the .gitignore at p. A missing file yields empty rules.
func LoadIgnore(p string) (*IgnoreRules, error) {
	file, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return &IgnoreRules{}, nil
		}
		return nil, err
	}
	defer file.Close()
	return ParseIgnore(file)
}

// Match reports whether rel (slash separated, relative to the .gitignore's
// directory) is ignored.
func (r *IgnoreRules) Match(rel string, isDir bool) bool {
	if r == nil {
		return false
	}
	rel = strings.TrimPrefix(filepath.ToSlash(rel), "/")
	base := path.Base(rel)

	ignored := false
	for _, rule := range r.rules {
		if rule.dirOnly && !isDir {
			continue
		}
		target := base
		if rule.anchored {
			target = rel
		}
		if rule.g.Match(target) {
			ignored = !rule.negate
		}
	}
	return ignored
}

// Len returns the number of parsed rules.
func (r *IgnoreRules) Len() int {
	if r == nil {
		return 0
	}
	return len(r.rules)
}

// EnsureIgnored ensures that .flattree/ is listed in the project's .gitignore
// file, so local state (tree state, config overrides) stays out of the
// repository.
//
// The function is idempotent and safe to call multiple times.
// It will:
//   - Create .gitignore if it doesn't exist
//   - Add ".flattree/" if no existing rule already covers it
//   - Preserve existing file content and formatting
func EnsureIgnored(projectDir string) error {
	if projectDir == "" {
		var err error
		projectDir, err = os.Getwd()
		if err != nil {
			return err
		}
	}

	gitignorePath := filepath.Join(projectDir, ".gitignore")

	alreadyPresent, err := isStateDirIgnored(gitignorePath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if alreadyPresent {
		return nil
	}

	return appendToGitignore(gitignorePath, stateDirEntry)
}

// isStateDirIgnored checks if .flattree is already covered by the .gitignore
// file, either as a directory or through its contents (".flattree/*" and
// similar).
func isStateDirIgnored(p string) (bool, error) {
	file, err := os.Open(p)
	if err != nil {
		return false, err
	}
	defer file.Close()

	rules, err := ParseIgnore(file)
	if err != nil {
		return false, err
	}
	return rules.Match(".flattree", true) ||
		rules.Match(".flattree/tree-state.json", false) ||
		rules.Match(".flattree/cache/state", false), nil
}

// appendToGitignore appends a pattern to the .gitignore file.
// It creates the file if it doesn't exist.
// It ensures there's a newline before the pattern if the file doesn't end with one.
func appendToGitignore(p string, pattern string) error {
	content, err := os.ReadFile(p)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	file, err := os.OpenFile(p, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	var toWrite string
	if len(content) == 0 {
		toWrite = "# flattree local state\n" + pattern + "\n"
	} else {
		if content[len(content)-1] != '\n' {
			toWrite = "\n"
		}
		toWrite += "\n# flattree local state\n" + pattern + "\n"
	}

	if _, err := file.WriteString(toWrite); err != nil {
		return err
	}

	return nil
}
