package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/db"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/registry"
)

// setupServer creates a server over an in-memory registry holding one
// project whose root contains an annotated file.
func setupServer(t *testing.T) (*Server, string) {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	rootDir := t.TempDir()
	source := `// REF: greet
// Greet writes a greeting.
func Greet() string { return "hi" }
// CLOSE: greet
`
	if err := os.WriteFile(filepath.Join(rootDir, "greet.go"), []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(rootDir, "plain.go"), []byte("package x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := registry.NewStore(database)
	project := &registry.Project{Name: "demo", RootPath: rootDir}
	if err := store.Add(context.Background(), project); err != nil {
		t.Fatalf("adding project: %v", err)
	}

	return NewServer(store, Config{}), rootDir
}

func resultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"list_projects", listProjectsTool, "list_projects"},
		{"list_annotated_files", listAnnotatedFilesTool, "list_annotated_files"},
		{"read_annotations", readAnnotationsTool, "read_annotations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestHandleListProjects(t *testing.T) {
	srv, rootDir := setupServer(t)
	ctx := context.Background()

	result, err := srv.handleListProjects(ctx, mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
	text := resultText(result)
	if !strings.Contains(text, "demo") {
		t.Errorf("output should name the project, got %q", text)
	}
	if !strings.Contains(text, rootDir) {
		t.Errorf("output should include the root path, got %q", text)
	}
}

func TestHandleListAnnotatedFiles(t *testing.T) {
	srv, _ := setupServer(t)
	ctx := context.Background()

	t.Run("annotated project", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"project": "demo"}

		result, err := srv.handleListAnnotatedFiles(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := resultText(result)
		if !strings.Contains(text, "greet.go") {
			t.Errorf("output should list greet.go, got %q", text)
		}
		if strings.Contains(text, "plain.go") {
			t.Errorf("output should not list unannotated files, got %q", text)
		}
	})

	t.Run("unknown project", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"project": "nope"}

		result, err := srv.handleListAnnotatedFiles(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for unknown project")
		}
	})

	t.Run("missing project", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleListAnnotatedFiles(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing project parameter")
		}
	})
}

func TestHandleReadAnnotations(t *testing.T) {
	srv, _ := setupServer(t)
	ctx := context.Background()

	t.Run("annotated file", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"project": "demo", "path": "greet.go"}

		result, err := srv.handleReadAnnotations(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := resultText(result)
		if !strings.Contains(text, "[greet]") {
			t.Errorf("output should name the greet section, got %q", text)
		}
		if !strings.Contains(text, "Greet writes a greeting.") {
			t.Errorf("output should include the section body, got %q", text)
		}
	})

	t.Run("unannotated file", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"project": "demo", "path": "plain.go"}

		result, err := srv.handleReadAnnotations(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if !strings.Contains(resultText(result), "no annotations") {
			t.Errorf("output should say the file has no annotations, got %q", resultText(result))
		}
	})

	t.Run("missing file", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"project": "demo", "path": "gone.go"}

		result, err := srv.handleReadAnnotations(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing file")
		}
	})

	t.Run("traversal rejected", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"project": "demo", "path": "../secret.go"}

		result, err := srv.handleReadAnnotations(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for path traversal")
		}
	})
}
