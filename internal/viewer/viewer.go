// Package viewer serves the dual-pane walkthrough: rendered documentation
// sections on one side, stripped code on the other, kept aligned by the
// scrollsync state machine over a websocket session.
package viewer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/annotate"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/registry"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/render"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/scan"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/walker"
)

// Config holds viewer settings.
type Config struct {
	Include      []string
	Exclude      []string
	MaxFileSize  int64
	Theme        string
	SyncDebounce time.Duration
}

// Viewer provides the dual-pane viewer routes.
type Viewer struct {
	store    *registry.Store
	cfg      Config
	renderer *render.Renderer
	cache    *scan.Cache
	log      zerolog.Logger
}

// New creates a new Viewer.
func New(store *registry.Store, cfg Config, log zerolog.Logger) *Viewer {
	if cfg.Theme == "" {
		cfg.Theme = "github"
	}
	return &Viewer{
		store:    store,
		cfg:      cfg,
		renderer: render.New(cfg.Theme),
		cache:    scan.NewCache(256),
		log:      log,
	}
}

// RegisterRoutes mounts all viewer routes onto the given router.
func (v *Viewer) RegisterRoutes(r chi.Router) {
	r.Get("/", v.ServeIndex)
	r.Get("/view/{project}/*", v.ServeIndex)
	r.Get("/api/view/{project}/*", v.handleView)
	r.Get("/api/projects/{id}/files", v.handleFiles)
	r.Get("/ws/sync", v.handleWebSocket)
}

// resolveProject looks a project up by name first, then by id.
func (v *Viewer) resolveProject(ctx context.Context, ref string) (*registry.Project, error) {
	p, err := v.store.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p, err = v.store.GetByID(ctx, ref)
	}
	return p, err
}

// loadDocument reads one file of a project and runs it through the
// annotation pipeline, reusing cached parses by content hash. A missing
// file returns os.ErrNotExist; an empty file returns an empty Document,
// not an error.
func (v *Viewer) loadDocument(ctx context.Context, projectRef, relPath string) (*registry.Project, *annotate.Document, walker.FileInfo, error) {
	var fi walker.FileInfo

	project, err := v.resolveProject(ctx, projectRef)
	if err != nil {
		return nil, nil, fi, err
	}
	if project == nil {
		return nil, nil, fi, fmt.Errorf("project %q: %w", projectRef, os.ErrNotExist)
	}

	relPath = filepath.ToSlash(filepath.Clean(relPath))
	absPath, err := walker.ResolveFile(project.RootPath, relPath)
	if err != nil || relPath == "." {
		return project, nil, fi, fmt.Errorf("path %q: %w", relPath, os.ErrNotExist)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return project, nil, fi, err
	}

	name := filepath.Base(relPath)
	fi = walker.FileInfo{
		Path:     absPath,
		RelPath:  relPath,
		Size:     int64(len(content)),
		Language: walker.DetectLanguage(name),
		Family:   walker.DetectFamily(name),
	}
	fi.ContentHash = walker.HashBytes(content)

	if doc, ok := v.cache.Get(fi.ContentHash); ok {
		return project, doc, fi, nil
	}
	doc := annotate.Parse(string(content), fi.Family)
	v.cache.Put(fi.ContentHash, doc)
	return project, doc, fi, nil
}
