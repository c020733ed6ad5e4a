package export

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/vanderheijden86/flattree/pkg/analysis"
	"github.com/vanderheijden86/flattree/pkg/model"
)

// GenerateMarkdown renders an outline as a markdown report: a summary, the
// outline as a nested task list and a mermaid diagram of its branches.
func GenerateMarkdown(o *model.Outline, title string) (string, error) {
	if o == nil {
		return "", fmt.Errorf("nil outline")
	}
	if title == "" {
		title = o.Title
	}
	if title == "" {
		title = "Outline"
	}
	stats := analysis.Summarize(o)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format(time.RFC1123)))

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Items**: %s\n", humanize.Comma(int64(stats.Nodes))))
	sb.WriteString(fmt.Sprintf("- **Branches**: %s\n", humanize.Comma(int64(stats.Branches))))
	sb.WriteString(fmt.Sprintf("- **Leaves**: %s\n", humanize.Comma(int64(stats.Leaves))))
	if stats.ToggledOn > 0 {
		sb.WriteString(fmt.Sprintf("- **Checked**: %s\n", humanize.Comma(int64(stats.ToggledOn))))
	}
	if stats.Marked > 0 {
		sb.WriteString(fmt.Sprintf("- **Selected**: %s\n", humanize.Comma(int64(stats.Marked))))
	}
	sb.WriteString(fmt.Sprintf("- **Depth**: %d\n", stats.MaxDepth))
	if stats.Branches > 0 {
		sb.WriteString(fmt.Sprintf("- **Children per branch**: %.1f ± %.1f\n", stats.MeanBranching, stats.StdDevBranching))
	}
	sb.WriteString("\n")

	sb.WriteString("## Contents\n\n")
	if len(o.Items) == 0 {
		sb.WriteString("_Empty outline._\n")
	}
	writeItems(&sb, o.Items, 0)
	sb.WriteString("\n---\n\n")

	sb.WriteString("## Structure\n\n")
	sb.WriteString("```mermaid\ngraph TD\n")
	writeMermaid(&sb, o)
	sb.WriteString("```\n\n")

	if len(stats.Hubs) > 0 {
		sb.WriteString("## Largest Branches\n\n")
		sb.WriteString("| Branch | Items below | Score |\n")
		sb.WriteString("|---|---|---|\n")
		for _, h := range stats.Hubs {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.0f |\n", h.Path, h.Descendants, h.Score))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func writeItems(sb *strings.Builder, items []*model.Item, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, it := range items {
		if it == nil {
			continue
		}
		sb.WriteString(indent + "- ")
		switch strings.ToUpper(it.Toggle) {
		case "ON":
			sb.WriteString("[x] ")
		case "OFF", "NOTDEF":
			sb.WriteString("[ ] ")
		}
		if it.IsBranch() {
			sb.WriteString("**" + it.Title + "**")
		} else {
			sb.WriteString(it.Title)
		}
		sb.WriteString("\n")
		writeItems(sb, it.Children, depth+1)
	}
}

// mermaidLabel sanitizes a title for a mermaid node label.
func mermaidLabel(title string) string {
	s := strings.ReplaceAll(title, "\"", "'")
	s = strings.NewReplacer("[", "", "]", "", "(", "", ")", "").Replace(s)
	if r := []rune(s); len(r) > 30 {
		s = string(r[:27]) + "..."
	}
	return s
}

// writeMermaid emits one node per branch and an edge to each child branch.
// Leaves are folded into a count on their parent.
func writeMermaid(sb *strings.Builder, o *model.Outline) {
	next := 0
	var walk func(items []*model.Item, parent string)
	walk = func(items []*model.Item, parent string) {
		for _, it := range items {
			if it == nil || !it.IsBranch() {
				continue
			}
			next++
			id := fmt.Sprintf("b%d", next)
			leaves := 0
			for _, ch := range it.Children {
				if ch != nil && !ch.IsBranch() {
					leaves++
				}
			}
			label := mermaidLabel(it.Title)
			if leaves > 0 {
				label += fmt.Sprintf(" <br/> %d items", leaves)
			}
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, label))
			if parent != "" {
				sb.WriteString(fmt.Sprintf("    %s --> %s\n", parent, id))
			}
			walk(it.Children, id)
		}
	}
	walk(o.Items, "")
	if next == 0 {
		sb.WriteString("    NoBranches[No branches]\n")
	}
}

// SaveMarkdownToFile writes the generated markdown to a file.
func SaveMarkdownToFile(o *model.Outline, filename string) error {
	content, err := GenerateMarkdown(o, "")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, []byte(content), 0644)
}
