package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/logutil"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/registry"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/server"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/viewer"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dual-pane viewer server",
	Long: `Starts the codewalk HTTP server: the project registry API, the
dual-pane viewer, and the websocket scroll-sync endpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveHost != "" {
			cfg.Server.Host = serveHost
		}
		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		log, closeLog, err := logutil.New(level, "")
		if err != nil {
			return fmt.Errorf("setting up logging: %w", err)
		}
		defer closeLog()

		database, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		store := registry.NewStore(database)
		if _, err := ensureProject(cmd.Context(), store, cfg.RootDir); err != nil {
			return fmt.Errorf("registering project: %w", err)
		}

		srv := server.New(server.Config{
			Host:     cfg.Server.Host,
			Port:     cfg.Server.Port,
			AllowAll: true,
		}, database, log)

		r := srv.Router()
		registry.RegisterRoutes(r, registry.RoutesDeps{Store: store})

		view := viewer.New(store, viewer.Config{
			Include:      cfg.Include,
			Exclude:      cfg.Exclude,
			MaxFileSize:  cfg.MaxFileSize,
			Theme:        string(cfg.Viewer.Theme),
			SyncDebounce: time.Duration(cfg.Viewer.SyncDebounceMs) * time.Millisecond,
		}, logutil.Component(log, "viewer"))
		view.RegisterRoutes(r)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		log.Info().
			Str("addr", srv.Addr()).
			Str("db", cfg.DBPath).
			Str("root", cfg.RootDir).
			Msg("codewalk server starting")
		fmt.Fprintf(os.Stderr, "codewalk v%s listening on http://%s\n", Version, srv.Addr())

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "override the configured listen host")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override the configured listen port")
	rootCmd.AddCommand(serveCmd)
}
