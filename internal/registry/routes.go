package registry

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

// RoutesDeps holds the dependencies needed to register project routes.
type RoutesDeps struct {
	Store *Store
}

// RegisterRoutes wires up the project registry REST API endpoints.
func RegisterRoutes(r chi.Router, deps RoutesDeps) {
	h := &routeHandler{deps: deps}
	r.Route("/api/projects", func(r chi.Router) {
		r.Post("/", h.addProject)
		r.Get("/", h.listProjects)
		r.Get("/{id}", h.getProject)
		r.Delete("/{id}", h.removeProject)
		r.Get("/{id}/scans", h.listScans)
	})
}

type routeHandler struct {
	deps RoutesDeps
}

type addProjectRequest struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	DisplayName string `json:"display_name,omitempty"`
}

func (h *routeHandler) addProject(w http.ResponseWriter, r *http.Request) {
	var req addProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "path is required"})
		return
	}

	ctx := r.Context()

	// Check if the project already exists.
	existing, _ := h.deps.Store.Get(ctx, req.Name)
	if existing != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": fmt.Sprintf("project %q already registered", req.Name)})
		return
	}

	absPath, _ := filepath.Abs(req.Path)
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("path does not exist: %s", absPath)})
		return
	}

	project := &Project{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		RootPath:    absPath,
	}
	if err := h.deps.Store.Add(ctx, project); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("registering project: %v", err)})
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

func (h *routeHandler) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.deps.Store.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("listing projects: %v", err)})
		return
	}
	if projects == nil {
		projects = []Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *routeHandler) getProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	project, err := h.deps.Store.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("getting project: %v", err)})
		return
	}
	if project == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("project %q not found", id)})
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *routeHandler) removeProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	project, _ := h.deps.Store.GetByID(ctx, id)
	if project == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("project %q not found", id)})
		return
	}

	if err := h.deps.Store.Remove(ctx, id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("removing project: %v", err)})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("project %q removed", project.Name)})
}

func (h *routeHandler) listScans(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	project, _ := h.deps.Store.GetByID(ctx, id)
	if project == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("project %q not found", id)})
		return
	}

	scans, err := h.deps.Store.ListScans(ctx, id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("listing scans: %v", err)})
		return
	}
	if scans == nil {
		scans = []Scan{}
	}
	writeJSON(w, http.StatusOK, scans)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
