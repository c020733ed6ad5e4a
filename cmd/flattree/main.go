package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	json "github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/vanderheijden86/flattree/pkg/analysis"
	"github.com/vanderheijden86/flattree/pkg/attrib"
	"github.com/vanderheijden86/flattree/pkg/config"
	"github.com/vanderheijden86/flattree/pkg/export"
	"github.com/vanderheijden86/flattree/pkg/flattree"
	"github.com/vanderheijden86/flattree/pkg/loader"
	"github.com/vanderheijden86/flattree/pkg/model"
	"github.com/vanderheijden86/flattree/pkg/outline"
	"github.com/vanderheijden86/flattree/pkg/snapshot"
	"github.com/vanderheijden86/flattree/pkg/ui"
	"github.com/vanderheijden86/flattree/pkg/watch"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// setFlags collects repeated -set NAME=VALUE arguments.
type setFlags []string

func (s *setFlags) String() string {
	return strings.Join(*s, ",")
}

func (s *setFlags) Set(v string) error {
	name, _, ok := strings.Cut(v, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf("expected NAME=VALUE, got %q", v)
	}
	*s = append(*s, v)
	return nil
}

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	configPath := flag.String("config", "", "Load configuration from this file instead of .flattree/config.yaml")
	dirRoot := flag.String("dir", "", "Browse a directory tree instead of an outline file")
	depth := flag.Int("depth", 0, "Limit --dir outlines to this many levels (0 = unlimited)")
	exportMD := flag.String("export-md", "", "Export the outline to a Markdown file (e.g., outline.md)")
	exportSVG := flag.String("export-svg", "", "Render the tree to an SVG file")
	exportPNG := flag.String("export-png", "", "Render the tree to a PNG file")
	exportJSON := flag.String("export-json", "", "Write the outline as JSON (- for stdout)")
	previewMD := flag.Bool("preview-md", false, "Print the outline as rendered Markdown")
	statsFlag := flag.Bool("stats", false, "Output outline statistics as JSON")
	snapshotFlag := flag.Bool("snapshot", false, "Save the outline to the snapshot database")
	restoreID := flag.String("restore", "", "Write snapshot ID (or 'latest') back to the outline file")
	listSnapshots := flag.Bool("list-snapshots", false, "List saved snapshots")
	serve := flag.Bool("serve", false, "Serve a live-reloading preview of the outline file")
	addr := flag.String("addr", "", "Listen address for --serve (default from config)")
	size := flag.String("size", "", "Image size for --export-svg and --export-png as WxH (default: fit the tree)")
	markMode := flag.String("mark-mode", "", "Selection mode: SINGLE or MULTIPLE")
	showToggle := flag.String("show-toggle", "", "Check boxes: NO, YES or 3STATE")
	listAttributes := flag.Bool("list-attributes", false, "List the control attributes accepted by --set")
	var sets setFlags
	flag.Var(&sets, "set", "Set a control attribute as NAME=VALUE (repeatable)")
	flag.Parse()

	if *help {
		fmt.Println("Usage: flattree [options] [outline files...]")
		fmt.Println("\nA terminal outline viewer and editor.")
		fmt.Println("With no outline argument the configured outline is opened.")
		fmt.Println("")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("flattree %s\n", version)
		os.Exit(0)
	}

	if *listAttributes {
		printAttributes(os.Stdout)
		os.Exit(0)
	}

	var cfg config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	settings, err := buildSettings(cfg.Settings, *markMode, *showToggle, sets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	width, height, err := parseSize(*size)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	ctx := context.Background()

	if *listSnapshots {
		store, err := snapshot.Open(cfg.ResolvedSnapshotPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening snapshots: %v\n", err)
			os.Exit(1)
		}
		snaps, err := store.List(ctx)
		store.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing snapshots: %v\n", err)
			os.Exit(1)
		}
		printSnapshots(os.Stdout, snaps, time.Now())
		os.Exit(0)
	}

	in, err := resolveInput(ctx, cfg, flag.Args(), *dirRoot, *depth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *serve {
		if in.path == "" {
			fmt.Fprintln(os.Stderr, "Error: --serve needs a single outline file")
			os.Exit(1)
		}
		listen := *addr
		if listen == "" {
			listen = cfg.Preview.Addr
		}
		if err := servePreview(in.path, listen, debounce); err != nil {
			fmt.Fprintf(os.Stderr, "Error serving preview: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *snapshotFlag || *restoreID != "" {
		store, err := snapshot.Open(cfg.ResolvedSnapshotPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening snapshots: %v\n", err)
			os.Exit(1)
		}
		if *snapshotFlag {
			snap, saved, err := store.Save(ctx, in.name, in.outline)
			if err != nil {
				store.Close()
				fmt.Fprintf(os.Stderr, "Error saving snapshot: %v\n", err)
				os.Exit(1)
			}
			if saved {
				fmt.Printf("Saved snapshot %s (%d items)\n", shortID(snap.ID), snap.Items)
			} else {
				fmt.Printf("Outline unchanged since snapshot %s\n", shortID(snap.ID))
			}
		}
		if *restoreID != "" {
			if err := restoreSnapshot(ctx, store, in, *restoreID); err != nil {
				store.Close()
				fmt.Fprintf(os.Stderr, "Error restoring snapshot: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Restored %s from snapshot %s\n", in.path, *restoreID)
		}
		store.Close()
		os.Exit(0)
	}

	exported := false
	if *statsFlag {
		exported = true
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(analysis.Summarize(in.outline)); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding stats: %v\n", err)
			os.Exit(1)
		}
	}
	if *exportJSON != "" {
		exported = true
		if err := writeJSON(in.outline, *exportJSON); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting JSON: %v\n", err)
			os.Exit(1)
		}
	}
	if *exportMD != "" {
		exported = true
		fmt.Printf("Exporting to %s...\n", *exportMD)
		if err := export.SaveMarkdownToFile(in.outline, *exportMD); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
			os.Exit(1)
		}
	}
	if *exportSVG != "" || *exportPNG != "" {
		exported = true
		ctl, err := pixelControl(in.outline, settings)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if *exportSVG != "" {
			fmt.Printf("Exporting to %s...\n", *exportSVG)
			if err := writeSVG(ctl, *exportSVG, width, height); err != nil {
				fmt.Fprintf(os.Stderr, "Error exporting SVG: %v\n", err)
				os.Exit(1)
			}
		}
		if *exportPNG != "" {
			fmt.Printf("Exporting to %s...\n", *exportPNG)
			if err := export.RenderPNG(ctl, *exportPNG, width, height); err != nil {
				fmt.Fprintf(os.Stderr, "Error exporting PNG: %v\n", err)
				os.Exit(1)
			}
		}
	}
	if *previewMD {
		exported = true
		out, err := renderMarkdown(in.outline, in.name, terminalWidth())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering preview: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(out)
	}
	if exported {
		os.Exit(0)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: stdout is not a terminal; use an export flag such as --export-md")
		os.Exit(1)
	}
	if err := runTUI(cfg, in, settings, debounce); err != nil {
		fmt.Printf("Error running flattree: %v\n", err)
		os.Exit(1)
	}
}

// input is the outline the command works on.
type input struct {
	outline *model.Outline
	// name identifies the outline in snapshots and the view state.
	name string
	// path is the single outline file, "" for directory and merged outlines.
	path string
	// load reads the outline again for the reload worker.
	load ui.LoadFunc
	// dir is set for directory outlines.
	dir string
}

// resolveInput loads the outline named by the arguments: a directory tree
// with -dir, one or more files, or else the configured outline.
func resolveInput(ctx context.Context, cfg config.Config, args []string, dirRoot string, depth int) (*input, error) {
	if dirRoot != "" {
		root, err := filepath.Abs(dirRoot)
		if err != nil {
			return nil, err
		}
		opts := loader.DirOptions{MaxDepth: depth}
		load := func() (*model.Outline, error) { return loader.DirOutline(root, opts) }
		o, err := load()
		if err != nil {
			return nil, err
		}
		return &input{outline: o, name: root, load: load, dir: root}, nil
	}

	paths := args
	if len(paths) == 0 {
		paths = config.DiscoverOutlines(cfg)
		if len(paths) > 1 {
			paths = paths[:1]
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no outline given and none configured (see --help)")
	}

	if len(paths) == 1 {
		path, err := filepath.Abs(paths[0])
		if err != nil {
			return nil, err
		}
		o, err := loader.LoadOutline(path)
		if err != nil {
			return nil, err
		}
		return &input{
			outline: o,
			name:    path,
			path:    path,
			load:    func() (*model.Outline, error) { return loader.LoadOutline(path) },
		}, nil
	}

	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = outlineName(p)
	}
	load := func() (*model.Outline, error) {
		outlines, err := loader.LoadOutlines(ctx, paths)
		if err != nil {
			return nil, err
		}
		return loader.Merge("", outlines, names), nil
	}
	o, err := load()
	if err != nil {
		return nil, err
	}
	return &input{outline: o, name: strings.Join(paths, string(os.PathListSeparator)), load: load}, nil
}

// outlineName strips the directory and the outline suffixes from a path.
func outlineName(p string) string {
	base := filepath.Base(p)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSuffix(base, ".outline")
}

// buildSettings layers the command-line overrides on the configured
// settings. -set names go to Extra and are applied after the typed fields.
func buildSettings(base model.Settings, markMode, showToggle string, sets []string) (*model.Settings, error) {
	s := base.Clone()
	if markMode != "" {
		s.MarkMode = strings.ToUpper(markMode)
	}
	if showToggle != "" {
		s.ShowToggle = strings.ToUpper(showToggle)
	}
	for _, kv := range sets {
		name, value, _ := strings.Cut(kv, "=")
		if s.Extra == nil {
			s.Extra = make(map[string]string)
		}
		s.Extra[strings.ToUpper(strings.TrimSpace(name))] = value
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &s, nil
}

// parseSize reads "WxH". An empty string means 0x0, which exports size to
// the tree.
func parseSize(s string) (int, int, error) {
	if s == "" {
		return 0, 0, nil
	}
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q: expected WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q: bad width", s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q: bad height", s)
	}
	return w, h, nil
}

// pixelControl loads o into a control measured in pixels, with the command
// line settings applied over the document's.
func pixelControl(o *model.Outline, s *model.Settings) (*flattree.Control, error) {
	ctl := export.NewPixelControl()
	if err := outline.Populate(ctl, o); err != nil {
		return nil, err
	}
	if err := outline.ApplySettings(attrib.New(ctl), s); err != nil {
		return nil, err
	}
	return ctl, nil
}

func writeSVG(ctl *flattree.Control, path string, width, height int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.RenderSVG(ctl, f, width, height); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeJSON encodes o as JSON to path, or to stdout for "-".
func writeJSON(o *model.Outline, path string) error {
	data, err := loader.EncodeOutline(o, loader.FormatJSON)
	if err != nil {
		return err
	}
	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// renderMarkdown renders the outline report for the terminal.
func renderMarkdown(o *model.Outline, name string, width int) (string, error) {
	md, err := export.GenerateMarkdown(o, "")
	if err != nil {
		return "", err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("preview of %s: %w", name, err)
	}
	return r.Render(md)
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// restoreSnapshot writes the snapshot id, or the latest one of the outline,
// back over the outline file.
func restoreSnapshot(ctx context.Context, store *snapshot.Store, in *input, id string) error {
	if in.path == "" {
		return fmt.Errorf("--restore needs a single outline file")
	}
	var snap snapshot.Snapshot
	var err error
	if id == "latest" {
		snap, err = store.Latest(ctx, in.name)
	} else {
		snap, err = store.Get(ctx, id)
	}
	if err != nil {
		return err
	}
	return loader.SaveOutline(in.path, snap.Outline)
}

func printSnapshots(w io.Writer, snaps []snapshot.Snapshot, now time.Time) {
	if len(snaps) == 0 {
		fmt.Fprintln(w, "No snapshots found.")
		fmt.Fprintln(w, "Create one with: flattree --snapshot <outline>")
		return
	}
	for _, s := range snaps {
		fmt.Fprintf(w, "%s  %-40s %5d items  %s\n", shortID(s.ID), s.Name, s.Items, s.Age(now))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// printAttributes lists every control attribute with its description.
func printAttributes(w io.Writer) {
	f := attrib.New(flattree.New(flattree.DefaultConfig(), flattree.Host{}))
	for _, name := range f.Names() {
		fmt.Fprintf(w, "%-16s %s\n", name, f.Describe(name))
	}
}

func servePreview(path, addr string, debounce time.Duration) error {
	srv, err := export.NewPreviewServer(path, watch.WithDebounceDuration(debounce))
	if err != nil {
		return err
	}
	if err := srv.Start(); err != nil {
		return err
	}
	defer srv.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	fmt.Printf("Serving preview of %s at http://%s (Ctrl+C to stop)\n", path, addr)
	return srv.ListenAndServe(ctx, addr)
}

// projectDir is where the view state lives: the project owning the config
// directory, else the outline's directory.
func projectDir(cfg config.Config, in *input) string {
	switch {
	case cfg.Dir != "":
		return filepath.Dir(cfg.Dir)
	case in.dir != "":
		return in.dir
	case in.path != "":
		return filepath.Dir(in.path)
	}
	cwd, _ := os.Getwd()
	return cwd
}

func runTUI(cfg config.Config, in *input, settings *model.Settings, debounce time.Duration) error {
	if os.Getenv("FLATTREE_DEBUG") != "" {
		f, err := tea.LogToFile("flattree-debug.log", "flattree")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	dir := projectDir(cfg, in)
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		if err := loader.EnsureIgnored(dir); err != nil {
			log.Printf("warning: updating .gitignore: %v", err)
		}
	}

	worker, err := ui.NewBackgroundWorker(ui.WorkerConfig{
		Path:          in.path,
		Watch:         cfg.Watch.Enabled && in.path != "",
		DebounceDelay: debounce,
		Load:          in.load,
	})
	if err != nil {
		return err
	}

	m, err := ui.NewModel(ui.Options{
		Outline:   in.outline,
		Name:      in.name,
		SavePath:  in.path,
		StatePath: config.StatePath(dir),
		Theme:     cfg.Theme,
		Settings:  settings,
		Worker:    worker,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	worker.SetProgram(p)
	if err := worker.Start(); err != nil {
		log.Printf("warning: starting reload worker: %v", err)
	}
	defer worker.Stop()

	_, err = p.Run()
	return err
}
