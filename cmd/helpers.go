package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/config"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/db"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/registry"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `codewalk init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// openDB opens the registry database at the configured path.
func openDB(cfg *config.Config) (*db.DB, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.DBPath, err)
	}
	return database, nil
}

// ensureProject looks up the project for the configured root dir,
// registering it on first use. The project name is the root directory's
// base name.
func ensureProject(ctx context.Context, store *registry.Store, rootDir string) (*registry.Project, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(absRoot)
	if name == "." || name == string(filepath.Separator) {
		name = "project"
	}

	project, err := store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if project != nil {
		if project.RootPath != absRoot {
			project.RootPath = absRoot
			if err := store.Update(ctx, project); err != nil {
				return nil, err
			}
		}
		return project, nil
	}

	project = &registry.Project{Name: name, RootPath: absRoot}
	if err := store.Add(ctx, project); err != nil {
		return nil, err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Registered project %q (%s)\n", name, absRoot)
	}
	return project, nil
}
