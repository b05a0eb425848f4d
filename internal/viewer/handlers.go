package viewer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/annotate"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/scrollsync"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/walker"
)

// sectionView is one section plus its rendered body.
type sectionView struct {
	annotate.Section
	BodyHTML string `json:"body_html"`
}

// viewResponse is the JSON payload the dual-pane client consumes.
type viewResponse struct {
	Project      string                     `json:"project"`
	Path         string                     `json:"path"`
	Language     string                     `json:"language"`
	Empty        bool                       `json:"empty,omitempty"`
	Sections     []sectionView              `json:"sections"`
	StrippedCode string                     `json:"stripped_code"`
	CodeHTML     string                     `json:"code_html"`
	Pairings     []annotate.Pairing         `json:"pairings"`
	Diagnostics  []annotate.Diagnostic      `json:"diagnostics,omitempty"`
	DeepLink     *scrollsync.DeepLinkTarget `json:"deep_link,omitempty"`
}

// fileEntry is one row of the sidebar file listing.
type fileEntry struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	Size     int64  `json:"size"`
}

func (v *Viewer) handleView(w http.ResponseWriter, r *http.Request) {
	projectRef := chi.URLParam(r, "project")
	relPath := chi.URLParam(r, "*")

	project, doc, fi, err := v.loadDocument(r.Context(), projectRef, relPath)
	if err != nil {
		if os.IsNotExist(err) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("no such file: %s/%s", projectRef, relPath)})
			return
		}
		v.log.Error().Err(err).Str("project", projectRef).Str("path", relPath).Msg("loading document")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "loading document failed"})
		return
	}

	resp := viewResponse{
		Project:  project.Name,
		Path:     fi.RelPath,
		Language: fi.Language,
	}

	// Empty file: a distinct no-content payload, not an error.
	if doc.IsEmpty() {
		resp.Empty = true
		resp.Sections = []sectionView{}
		resp.Pairings = []annotate.Pairing{}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp.StrippedCode = doc.StrippedCode
	resp.Pairings = doc.Pairings
	resp.Diagnostics = doc.Diagnostics

	resp.Sections = make([]sectionView, len(doc.Sections))
	for i, sec := range doc.Sections {
		bodyHTML, err := v.renderer.Markdown(sec.Body)
		if err != nil {
			v.log.Warn().Err(err).Str("section", sec.ID).Msg("rendering section body")
		}
		resp.Sections[i] = sectionView{Section: sec, BodyHTML: string(bodyHTML)}
	}

	codeHTML, err := v.renderer.Code(doc.StrippedCode, fi.Language)
	if err != nil {
		v.log.Warn().Err(err).Str("path", fi.RelPath).Msg("rendering code pane")
	}
	resp.CodeHTML = string(codeHTML)

	// Deep link: 1-based inclusive original-file coordinates.
	if lineStr := r.URL.Query().Get("line"); lineStr != "" {
		line, err := strconv.Atoi(lineStr)
		if err == nil && line > 0 {
			lineEnd, _ := strconv.Atoi(r.URL.Query().Get("lineEnd"))
			sync := scrollsync.New(doc, scrollsync.Config{Debounce: v.cfg.SyncDebounce})
			target := sync.ResolveDeepLink(line, lineEnd)
			resp.DeepLink = &target
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (v *Viewer) handleFiles(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	project, err := v.resolveProject(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("resolving project: %v", err)})
		return
	}
	if project == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("project %q not found", id)})
		return
	}

	files, err := walker.Walk(walker.WalkerConfig{
		RootDir:     project.RootPath,
		Include:     v.cfg.Include,
		Exclude:     v.cfg.Exclude,
		MaxFileSize: v.cfg.MaxFileSize,
	})
	if err != nil {
		v.log.Error().Err(err).Str("project", project.Name).Msg("walking project")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "walking project failed"})
		return
	}

	entries := make([]fileEntry, len(files))
	for i, f := range files {
		entries[i] = fileEntry{Path: f.RelPath, Language: f.Language, Size: f.Size}
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
