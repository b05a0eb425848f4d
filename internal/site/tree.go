package site

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// FileTree represents a node in the exported source-file tree.
type FileTree struct {
	Name     string
	Path     string // For files: relative source path. For dirs: directory path.
	IsDir    bool
	Children []*FileTree
}

// BuildTree constructs a FileTree from a list of relative source paths.
func BuildTree(paths []string) *FileTree {
	root := &FileTree{Name: "src", IsDir: true}

	for _, p := range paths {
		p = filepath.ToSlash(p)
		parts := strings.Split(p, "/")
		current := root
		for i, part := range parts {
			isLast := i == len(parts)-1
			found := false
			for _, child := range current.Children {
				if child.Name == part {
					current = child
					found = true
					break
				}
			}
			if !found {
				node := &FileTree{
					Name:  part,
					IsDir: !isLast,
				}
				if isLast {
					node.Path = p
				} else {
					node.Path = strings.Join(parts[:i+1], "/")
				}
				current.Children = append(current.Children, node)
				current = node
			}
		}
	}

	sortTree(root)
	return root
}

// sortTree recursively sorts tree children: directories first, then files, alphabetically.
func sortTree(node *FileTree) {
	sort.Slice(node.Children, func(i, j int) bool {
		if node.Children[i].IsDir != node.Children[j].IsDir {
			return node.Children[i].IsDir
		}
		return node.Children[i].Name < node.Children[j].Name
	})
	for _, child := range node.Children {
		if child.IsDir {
			sortTree(child)
		}
	}
}

// ToHTML renders the file tree as nested <ul><li> HTML for the sidebar.
// basePath is the relative prefix to get back to root (e.g., "../" for a
// page one level deep).
func (t *FileTree) ToHTML(activePath, basePath string) string {
	activeAncestors := computeActiveAncestors(activePath)

	var b strings.Builder
	fmt.Fprintf(&b, `<ul><li class="file home-link"><a href="%sindex.html">Overview</a></li></ul>`+"\n", basePath)

	renderChildren(&b, t, activePath, basePath, activeAncestors)
	return b.String()
}

// computeActiveAncestors returns the set of directory paths that are
// ancestors of activePath.
func computeActiveAncestors(activePath string) map[string]bool {
	ancestors := make(map[string]bool)
	activePath = filepath.ToSlash(activePath)
	parts := strings.Split(activePath, "/")
	for i := 1; i < len(parts); i++ {
		ancestors[strings.Join(parts[:i], "/")] = true
	}
	return ancestors
}

func renderChildren(b *strings.Builder, node *FileTree, activePath, basePath string, activeAncestors map[string]bool) {
	if len(node.Children) == 0 {
		return
	}
	b.WriteString("<ul>\n")
	for _, child := range node.Children {
		if child.IsDir {
			expanded := ""
			if activeAncestors[child.Path] {
				expanded = "expanded"
			}
			fmt.Fprintf(b, `<li class="dir %s"><span class="dir-toggle">%s</span>`+"\n", expanded, child.Name)
			renderChildren(b, child, activePath, basePath, activeAncestors)
			b.WriteString("</li>\n")
		} else {
			htmlPath := basePath + PagePath(child.Path)
			activeClass := ""
			if child.Path == activePath {
				activeClass = ` class="active"`
			}
			fmt.Fprintf(b, `<li class="file"><a href="%s"%s>%s</a></li>`+"\n", htmlPath, activeClass, child.Name)
		}
	}
	b.WriteString("</ul>\n")
}

// PagePath converts a relative source path to its exported HTML page path.
func PagePath(p string) string {
	return filepath.ToSlash(p) + ".html"
}
