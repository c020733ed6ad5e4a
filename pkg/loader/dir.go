package loader

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vanderheijden86/flattree/pkg/model"
)

// Image names DirOutline assigns; hosts register images under these names.
const (
	ImageFolder = "folder"
	ImageFile   = "file"
)

// DirOptions controls DirOutline.
type DirOptions struct {
	// MaxDepth limits how deep directories are expanded into children; a
	// directory at the limit becomes an empty branch. Zero means unlimited.
	MaxDepth int
	// IncludeHidden keeps dot files and directories (.git is always skipped).
	IncludeHidden bool
	// DirsOnly leaves files out of the outline.
	DirsOnly bool
	// Ignore overrides the rules read from root/.gitignore.
	Ignore *IgnoreRules
}

// DirOutline builds an outline mirroring the directory tree under root.
// Directories become collapsed branches listed before files, each group in
// name order. Paths matched by the .gitignore rules are skipped.
func DirOutline(root string, opts DirOptions) (*model.Outline, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	rules := opts.Ignore
	if rules == nil {
		rules, err = LoadIgnore(filepath.Join(root, ".gitignore"))
		if err != nil {
			return nil, fmt.Errorf("reading .gitignore: %w", err)
		}
	}

	b := dirBuilder{root: root, opts: opts, rules: rules}
	items, err := b.list("", 1)
	if err != nil {
		return nil, err
	}

	title := filepath.Base(filepath.Clean(root))
	if abs, err := filepath.Abs(root); err == nil {
		title = filepath.Base(abs)
	}
	return &model.Outline{Version: model.CurrentVersion, Title: title, Items: items}, nil
}

type dirBuilder struct {
	root  string
	opts  DirOptions
	rules *IgnoreRules
}

func (b *dirBuilder) list(rel string, depth int) ([]*model.Item, error) {
	entries, err := os.ReadDir(filepath.Join(b.root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", rel, err)
	}

	var dirs, files []*model.Item
	for _, e := range entries {
		name := e.Name()
		if name == ".git" {
			continue
		}
		if !b.opts.IncludeHidden && strings.HasPrefix(name, ".") {
			continue
		}
		child := path.Join(rel, name)
		isDir := e.IsDir()
		if b.rules.Match(child, isDir) {
			continue
		}

		if !isDir {
			if !b.opts.DirsOnly {
				files = append(files, &model.Item{Title: name, Kind: model.KindLeaf, Image: ImageFile})
			}
			continue
		}

		item := &model.Item{
			Title:    name,
			Kind:     model.KindBranch,
			Expanded: model.Bool(false),
			Image:    ImageFolder,
		}
		if b.opts.MaxDepth <= 0 || depth < b.opts.MaxDepth {
			children, err := b.list(child, depth+1)
			if err != nil {
				return nil, err
			}
			item.Children = children
		}
		dirs = append(dirs, item)
	}

	byTitle := func(items []*model.Item) {
		sort.SliceStable(items, func(i, j int) bool { return items[i].Title < items[j].Title })
	}
	byTitle(dirs)
	byTitle(files)
	return append(dirs, files...), nil
}
