package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/annotate"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/registry"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/scan"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/walker"
)

// handleListProjects lists all registered projects.
func (s *Server) handleListProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := s.store.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing projects failed: %v", err)), nil
	}

	if len(projects) == 0 {
		return mcp.NewToolResultText("No projects registered. Run `codewalk init` in a project and `codewalk check` to register one."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d project(s):\n", len(projects)))
	for _, p := range projects {
		name := p.Name
		if p.DisplayName != "" && p.DisplayName != p.Name {
			name = fmt.Sprintf("%s (%s)", p.DisplayName, p.Name)
		}
		sb.WriteString(fmt.Sprintf("- %s\n  root: %s\n  id: %s\n", name, p.RootPath, p.ID))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleListAnnotatedFiles scans a project and lists the files that carry
// annotations.
func (s *Server) handleListAnnotatedFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectRef, err := request.RequireString("project")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: project"), nil
	}

	project, err := s.resolveProject(ctx, projectRef)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("resolving project failed: %v", err)), nil
	}
	if project == nil {
		return mcp.NewToolResultError(fmt.Sprintf("unknown project %q", projectRef)), nil
	}

	files, err := walker.Walk(walker.WalkerConfig{
		RootDir:     project.RootPath,
		Include:     s.cfg.Include,
		Exclude:     s.cfg.Exclude,
		MaxFileSize: s.cfg.MaxFileSize,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("walking %s failed: %v", project.RootPath, err)), nil
	}

	summary := scan.NewScanner(s.cfg.Concurrency).Run(ctx, files)

	var sb strings.Builder
	annotated := 0
	for _, fr := range summary.Files {
		if len(fr.Doc.Sections) == 0 {
			continue
		}
		annotated++
		sb.WriteString(fmt.Sprintf("- %s (%s, %d section(s))\n",
			fr.File.RelPath, fr.File.Language, len(fr.Doc.Sections)))
	}

	if annotated == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"No annotated files in %q. Add REF:/CLOSE: markers to source comments to annotate files.",
			project.Name,
		)), nil
	}
	header := fmt.Sprintf("%d annotated file(s) in %q (of %d scanned):\n", annotated, project.Name, summary.FilesTotal)
	return mcp.NewToolResultText(header + sb.String()), nil
}

// handleReadAnnotations parses one file and returns its sections as text.
func (s *Server) handleReadAnnotations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectRef, err := request.RequireString("project")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: project"), nil
	}
	relPath, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}

	project, err := s.resolveProject(ctx, projectRef)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("resolving project failed: %v", err)), nil
	}
	if project == nil {
		return mcp.NewToolResultError(fmt.Sprintf("unknown project %q", projectRef)), nil
	}

	relPath = filepath.ToSlash(filepath.Clean(relPath))
	if relPath == "." || strings.HasPrefix(relPath, "..") || filepath.IsAbs(relPath) {
		return mcp.NewToolResultError(fmt.Sprintf("invalid path %q", relPath)), nil
	}

	absPath := filepath.Join(project.RootPath, filepath.FromSlash(relPath))
	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return mcp.NewToolResultError(fmt.Sprintf("no file %q in project %q", relPath, project.Name)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("reading %s failed: %v", relPath, err)), nil
	}

	doc := annotate.Parse(string(content), walker.DetectFamily(filepath.Base(relPath)))
	if len(doc.Sections) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("%s has no annotations.", relPath)), nil
	}

	return mcp.NewToolResultText(formatDocument(relPath, doc)), nil
}

// resolveProject looks a project up by name first, then by ID.
func (s *Server) resolveProject(ctx context.Context, ref string) (*registry.Project, error) {
	p, err := s.store.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p, err = s.store.GetByID(ctx, ref)
	}
	return p, err
}

// formatDocument renders a parsed document as indented text for agent
// consumption. Pairings[i] belongs to Sections[i].
func formatDocument(relPath string, doc *annotate.Document) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s — %d section(s):\n", relPath, len(doc.Sections)))

	for i, sec := range doc.Sections {
		indent := strings.Repeat("  ", sec.Depth)
		title := sec.Title
		if title == "" {
			title = sec.ID
		}
		sb.WriteString(fmt.Sprintf("\n%s## %s [%s]\n", indent, title, sec.ID))
		sb.WriteString(fmt.Sprintf("%sOriginal lines %d-%d", indent, sec.OriginalRange.Start, sec.OriginalRange.End))
		if i < len(doc.Pairings) {
			if code := doc.Pairings[i].CodeRange; !code.IsEmpty() {
				sb.WriteString(fmt.Sprintf("; code lines %d-%d", code.Start, code.End))
			} else {
				sb.WriteString("; prose only")
			}
		}
		sb.WriteString("\n")
		if sec.Body != "" {
			for _, line := range strings.Split(sec.Body, "\n") {
				sb.WriteString(indent + line + "\n")
			}
		}
	}

	if len(doc.Diagnostics) > 0 {
		sb.WriteString(fmt.Sprintf("\n%d diagnostic(s):\n", len(doc.Diagnostics)))
		for _, d := range doc.Diagnostics {
			sb.WriteString(fmt.Sprintf("- line %d: %s\n", d.Line, d.Message))
		}
	}

	return sb.String()
}
