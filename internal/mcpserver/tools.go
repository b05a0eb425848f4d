package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// listProjectsTool defines the list_projects MCP tool.
var listProjectsTool = mcp.NewTool("list_projects",
	mcp.WithDescription("List the projects registered with codewalk, with their root paths."),
)

// listAnnotatedFilesTool defines the list_annotated_files MCP tool.
var listAnnotatedFilesTool = mcp.NewTool("list_annotated_files",
	mcp.WithDescription("List the source files in a project that carry REF annotations, with per-file section counts."),
	mcp.WithString("project",
		mcp.Required(),
		mcp.Description("Project name or ID"),
	),
)

// readAnnotationsTool defines the read_annotations MCP tool.
var readAnnotationsTool = mcp.NewTool("read_annotations",
	mcp.WithDescription("Read the annotation sections of one source file: titles, bodies, and the code lines each section documents."),
	mcp.WithString("project",
		mcp.Required(),
		mcp.Description("Project name or ID"),
	),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("File path relative to the project root"),
	),
)
