package registry

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/db"
)

// Project represents a registered annotated teaching project.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	RootPath    string    `json:"root_path"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Scan records one annotation pass over a project tree.
type Scan struct {
	ID               string    `json:"id"`
	ProjectID        string    `json:"project_id"`
	FilesTotal       int       `json:"files_total"`
	FilesAnnotated   int       `json:"files_annotated"`
	SectionsTotal    int       `json:"sections_total"`
	DiagnosticsTotal int       `json:"diagnostics_total"`
	DurationMs       int64     `json:"duration_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// Store provides CRUD operations for the project registry.
type Store struct {
	db *db.DB
}

// NewStore creates a new registry store.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// Add inserts a new project.
func (s *Store) Add(ctx context.Context, p *Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.DisplayName == "" {
		p.DisplayName = p.Name
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, display_name, root_path, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.DisplayName, p.RootPath, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("adding project: %w", err)
	}
	return nil
}

// Get retrieves a project by name. Returns (nil, nil) when not found.
func (s *Store) Get(ctx context.Context, name string) (*Project, error) {
	p := &Project{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, display_name, root_path, created_at, updated_at
		 FROM projects WHERE name = ?`, name,
	).Scan(&p.ID, &p.Name, &p.DisplayName, &p.RootPath, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return p, nil
}

// GetByID retrieves a project by ID. Returns (nil, nil) when not found.
func (s *Store) GetByID(ctx context.Context, id string) (*Project, error) {
	p := &Project{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, display_name, root_path, created_at, updated_at
		 FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.DisplayName, &p.RootPath, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting project by ID: %w", err)
	}
	return p, nil
}

// List returns all registered projects.
func (s *Store) List(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, display_name, root_path, created_at, updated_at
		 FROM projects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.DisplayName, &p.RootPath, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Update modifies an existing project record.
func (s *Store) Update(ctx context.Context, p *Project) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE projects SET display_name=?, root_path=?, updated_at=? WHERE id=?`,
		p.DisplayName, p.RootPath, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Remove deletes a project by ID. Its scans are removed by cascade.
func (s *Store) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("removing project: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AddScan records a completed scan for a project.
func (s *Store) AddScan(ctx context.Context, scan *Scan) error {
	if scan.ID == "" {
		scan.ID = uuid.NewString()
	}
	scan.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scans (id, project_id, files_total, files_annotated, sections_total, diagnostics_total, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		scan.ID, scan.ProjectID, scan.FilesTotal, scan.FilesAnnotated,
		scan.SectionsTotal, scan.DiagnosticsTotal, scan.DurationMs, scan.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("adding scan: %w", err)
	}
	return nil
}

// ListScans returns a project's scans, most recent first.
func (s *Store) ListScans(ctx context.Context, projectID string) ([]Scan, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, files_total, files_annotated, sections_total, diagnostics_total, duration_ms, created_at
		 FROM scans WHERE project_id = ? ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}
	defer rows.Close()

	var scans []Scan
	for rows.Next() {
		var sc Scan
		if err := rows.Scan(&sc.ID, &sc.ProjectID, &sc.FilesTotal, &sc.FilesAnnotated,
			&sc.SectionsTotal, &sc.DiagnosticsTotal, &sc.DurationMs, &sc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning scan row: %w", err)
		}
		scans = append(scans, sc)
	}
	return scans, rows.Err()
}
