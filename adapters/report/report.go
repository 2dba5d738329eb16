package report

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"golime/domain/explanation"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Renderer turns a de-normalized explanation into a markdown or HTML report
type Renderer struct {
	layout explanation.Layout
	title  string
}

// NewRenderer creates a renderer for explanations with the given layout
func NewRenderer(layout explanation.Layout, title string) *Renderer {
	if title == "" {
		title = "Explanation report"
	}
	return &Renderer{layout: layout, title: title}
}

// Markdown renders the report body
func (r *Renderer) Markdown(exp *explanation.Explanation) ([]byte, error) {
	dm := exp.DomainMapper
	if err := r.layout.CheckLen(len(dm.FeatureValues), "feature_values"); err != nil {
		return nil, err
	}
	if err := r.layout.CheckLen(len(dm.DiscretizedFeatureNames), "discretized_feature_names"); err != nil {
		return nil, err
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s\n\n", r.title)
	if exp.ID != "" {
		fmt.Fprintf(&b, "Explanation `%s`\n\n", exp.ID)
	}
	fmt.Fprintf(&b, "%d columns, %d timepoints per column.\n\n", r.layout.Features(), r.layout.Timepoints())

	labels := make([]string, 0, len(exp.LocalExp))
	for label := range exp.LocalExp {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		pairs, err := exp.AsList(label)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&b, "## Weights for %s\n\n", r.labelName(exp, label))
		b.WriteString("| Rank | Rule | Weight |\n|---:|---|---:|\n")
		for i, p := range pairs {
			fmt.Fprintf(&b, "| %d | `%s` | %.4f |\n", i+1, p.Name, p.Weight)
		}
		b.WriteString("\n")
	}

	for c, col := range r.layout.Columns {
		fmt.Fprintf(&b, "## %s\n\n", col)
		b.WriteString("| Feature | Value | Rule |\n|---|---:|---|\n")
		for t := 0; t < r.layout.Timepoints(); t++ {
			i := r.layout.Index(c, t)
			fmt.Fprintf(&b, "| %s | %s | `%s` |\n", r.layout.FeatureName(c, t), dm.FeatureValues[i], dm.DiscretizedFeatureNames[i])
		}
		b.WriteString("\n")
	}
	return b.Bytes(), nil
}

// HTML renders the report as a standalone page
func (r *Renderer) HTML(exp *explanation.Explanation) ([]byte, error) {
	md, err := r.Markdown(exp)
	if err != nil {
		return nil, err
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: r.title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML(md, p, renderer), nil
}

// Save writes <name>.md and <name>.html into dir and returns both paths
func (r *Renderer) Save(dir, name string, exp *explanation.Explanation) (string, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create report dir: %w", err)
	}
	md, err := r.Markdown(exp)
	if err != nil {
		return "", "", err
	}
	page, err := r.HTML(exp)
	if err != nil {
		return "", "", err
	}

	mdPath := filepath.Join(dir, name+".md")
	htmlPath := filepath.Join(dir, name+".html")
	if err := os.WriteFile(mdPath, md, 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write markdown report: %w", err)
	}
	if err := os.WriteFile(htmlPath, page, 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write HTML report: %w", err)
	}
	log.Printf("[Report] Wrote %s and %s", mdPath, htmlPath)
	return mdPath, htmlPath, nil
}

// labelName resolves a numeric label to its class name when the explanation carries them
func (r *Renderer) labelName(exp *explanation.Explanation, label string) string {
	var idx int
	if _, err := fmt.Sscanf(label, "%d", &idx); err == nil && idx >= 0 && idx < len(exp.ClassNames) {
		return fmt.Sprintf("%s (%s)", exp.ClassNames[idx], label)
	}
	return label
}
