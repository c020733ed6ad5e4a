package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/flattree/pkg/model"
)

// Format names an outline encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// ErrUnsupportedFormat is returned for file extensions with no known encoding.
var ErrUnsupportedFormat = errors.New("unsupported outline format")

// maxConcurrentLoads bounds LoadOutlines.
const maxConcurrentLoads = 8

// FormatOf picks the encoding from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// LoadOutline reads and validates an outline document.
func LoadOutline(path string) (*model.Outline, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading outline: %w", err)
	}
	o, err := DecodeOutline(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}

// DecodeOutline parses and validates an outline in the given format. An
// empty document yields an empty outline.
func DecodeOutline(data []byte, format Format) (*model.Outline, error) {
	o := &model.Outline{}
	var err error
	switch format {
	case FormatYAML:
		err = yaml.NewDecoder(bytes.NewReader(data)).Decode(o)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case FormatJSON:
		if len(bytes.TrimSpace(data)) > 0 {
			err = json.Unmarshal(data, o)
		}
	case FormatTOML:
		err = toml.Unmarshal(data, o)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s outline: %w", format, err)
	}
	if o.Version == 0 {
		o.Version = model.CurrentVersion
	}
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("invalid outline: %w", err)
	}
	return o, nil
}

// EncodeOutline renders an outline in the given format.
func EncodeOutline(o *model.Outline, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(o); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(o, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatTOML:
		return toml.Marshal(o)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// SaveOutline validates o and writes it to path in the format implied by the
// extension. The file is replaced atomically.
func SaveOutline(path string, o *model.Outline) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if err := o.Validate(); err != nil {
		return fmt.Errorf("invalid outline: %w", err)
	}
	data, err := EncodeOutline(o, format)
	if err != nil {
		return fmt.Errorf("encoding outline: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing outline: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing outline: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// LoadOutlines loads several outlines concurrently. Results keep the order
// of paths; the first failure cancels the remaining loads.
func LoadOutlines(ctx context.Context, paths []string) ([]*model.Outline, error) {
	results := make([]*model.Outline, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)

	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o, err := LoadOutline(p)
			if err != nil {
				return err
			}
			results[i] = o
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Merge combines outlines into one, each becoming a top-level branch named
// after its title (or the matching fallback name).
func Merge(title string, outlines []*model.Outline, names []string) *model.Outline {
	merged := &model.Outline{Version: model.CurrentVersion, Title: title}
	for i, o := range outlines {
		name := o.Title
		if name == "" && i < len(names) {
			name = names[i]
		}
		if name == "" {
			name = fmt.Sprintf("outline %d", i+1)
		}
		c := o.Clone()
		merged.Items = append(merged.Items, &model.Item{
			Title:    name,
			Kind:     model.KindBranch,
			Children: c.Items,
		})
	}
	return merged
}
