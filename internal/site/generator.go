// Package site exports a project's annotated files as a static dual-pane
// site: one page per source file with rendered sections beside stripped
// code, plus an index page and a sidebar tree.
package site

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/annotate"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/render"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/scan"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/walker"
)

// Generator exports the static dual-pane site for one project.
type Generator struct {
	ProjectName string
	RootDir     string
	OutputDir   string
	Include     []string
	Exclude     []string
	MaxFileSize int64
	Theme       string
	Concurrency int

	// OnProgress, when set, is called after each file is parsed.
	OnProgress scan.ProgressFunc
}

// NewGenerator creates a Generator with the given directories.
func NewGenerator(projectName, rootDir, outputDir string) *Generator {
	return &Generator{
		ProjectName: projectName,
		RootDir:     rootDir,
		OutputDir:   outputDir,
		Theme:       "github",
		Concurrency: 4,
	}
}

// pageData holds the data passed to the HTML template for each page.
type pageData struct {
	Title        string
	ProjectName  string
	Path         string
	TreeHTML     template.HTML
	Sections     []pageSection
	CodeHTML     template.HTML
	PairingsJSON template.JS
	BasePath     string
	Diagnostics  []annotate.Diagnostic
}

// pageSection is one rendered section block.
type pageSection struct {
	ID       string
	Title    string
	BodyHTML template.HTML
}

// indexData holds the data for the index page.
type indexData struct {
	ProjectName    string
	TreeHTML       template.HTML
	FilesTotal     int
	FilesAnnotated int
	SectionsTotal  int
}

// Generate builds the full static site. Returns the number of pages written.
func (g *Generator) Generate(ctx context.Context) (int, error) {
	files, err := walker.Walk(walker.WalkerConfig{
		RootDir:     g.RootDir,
		Include:     g.Include,
		Exclude:     g.Exclude,
		MaxFileSize: g.MaxFileSize,
	})
	if err != nil {
		return 0, fmt.Errorf("walking %s: %w", g.RootDir, err)
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("no source files found in %s", g.RootDir)
	}

	scanner := scan.NewScanner(g.Concurrency)
	if g.OnProgress != nil {
		scanner.SetProgressFunc(g.OnProgress)
	}
	summary := scanner.Run(ctx, files)

	// Only annotated files get pages; the sidebar shows the same set.
	var annotated []scan.FileResult
	var paths []string
	for _, fr := range summary.Files {
		if len(fr.Doc.Sections) == 0 {
			continue
		}
		annotated = append(annotated, fr)
		paths = append(paths, fr.File.RelPath)
	}
	if len(annotated) == 0 {
		return 0, fmt.Errorf("no annotated files found in %s", g.RootDir)
	}

	tree := BuildTree(paths)

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return 0, err
	}

	// Write static assets.
	if err := os.WriteFile(filepath.Join(g.OutputDir, "style.css"), []byte(cssContent), 0o644); err != nil {
		return 0, err
	}
	if err := os.WriteFile(filepath.Join(g.OutputDir, "script.js"), []byte(jsContent), 0o644); err != nil {
		return 0, err
	}

	renderer := render.New(g.Theme)

	pageTmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return 0, fmt.Errorf("parsing page template: %w", err)
	}
	indexTmpl, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		return 0, fmt.Errorf("parsing index template: %w", err)
	}

	pages := 0
	for _, fr := range annotated {
		if err := g.renderPage(renderer, pageTmpl, tree, fr); err != nil {
			return pages, fmt.Errorf("rendering %s: %w", fr.File.RelPath, err)
		}
		pages++
	}

	if err := g.renderIndex(indexTmpl, tree, summary); err != nil {
		return pages, fmt.Errorf("rendering index: %w", err)
	}
	pages++

	return pages, nil
}

// renderPage writes one dual-pane page for an annotated file.
func (g *Generator) renderPage(renderer *render.Renderer, tmpl *template.Template, tree *FileTree, fr scan.FileResult) error {
	relPath := fr.File.RelPath
	basePath := strings.Repeat("../", strings.Count(relPath, "/"))

	sections := make([]pageSection, len(fr.Doc.Sections))
	for i, sec := range fr.Doc.Sections {
		bodyHTML, err := renderer.Markdown(sec.Body)
		if err != nil {
			return err
		}
		sections[i] = pageSection{ID: sec.ID, Title: sec.Title, BodyHTML: bodyHTML}
	}

	codeHTML, err := renderer.Code(fr.Doc.StrippedCode, fr.File.Language)
	if err != nil {
		return err
	}

	pairingsJSON, err := pairingsAsJSON(fr.Doc.Pairings)
	if err != nil {
		return err
	}

	data := pageData{
		Title:        filepath.Base(relPath),
		ProjectName:  g.ProjectName,
		Path:         relPath,
		TreeHTML:     template.HTML(tree.ToHTML(relPath, basePath)),
		Sections:     sections,
		CodeHTML:     codeHTML,
		PairingsJSON: pairingsJSON,
		BasePath:     basePath,
		Diagnostics:  fr.Doc.Diagnostics,
	}

	outPath := filepath.Join(g.OutputDir, filepath.FromSlash(PagePath(relPath)))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return tmpl.Execute(f, data)
}

// renderIndex writes the landing page with project-level scan stats.
func (g *Generator) renderIndex(tmpl *template.Template, tree *FileTree, summary *scan.Summary) error {
	data := indexData{
		ProjectName:    g.ProjectName,
		TreeHTML:       template.HTML(tree.ToHTML("", "")),
		FilesTotal:     summary.FilesTotal,
		FilesAnnotated: summary.FilesAnnotated,
		SectionsTotal:  summary.SectionsTotal,
	}

	f, err := os.Create(filepath.Join(g.OutputDir, "index.html"))
	if err != nil {
		return err
	}
	defer f.Close()
	return tmpl.Execute(f, data)
}

// pairingsAsJSON serializes the pairing table for the static sync script.
func pairingsAsJSON(pairings []annotate.Pairing) (template.JS, error) {
	var b strings.Builder
	b.WriteString("[")
	for i, p := range pairings {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"section_id":%q,"start":%d,"end":%d}`, p.SectionID, p.CodeRange.Start, p.CodeRange.End)
	}
	b.WriteString("]")
	return template.JS(b.String()), nil
}
