package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hume-connect/intake/schema"
	"github.com/hume-connect/intake/server"
	"github.com/hume-connect/intake/store"
)

var (
	serveAddr     string
	serveDB       string
	serveFormsDir string
	serveDev      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the intake HTTP service",
	Long: `Serve runs the intake HTTP service.

Form configurations found under --forms are seeded into the store at
boot for any application type that has no active configuration yet.

Examples:
  intake serve --addr :8080 --db intake.db
  intake serve --db intake.db --forms ./forms
  intake serve --dev`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&serveDB, "db", "intake.db", "SQLite database path")
	serveCmd.Flags().StringVar(&serveFormsDir, "forms", "", "YAML form configuration file or directory to seed from")
	serveCmd.Flags().BoolVar(&serveDev, "dev", false, "Include error detail in 500 responses")
}

func runServe(cmd *cobra.Command, args []string) error {
	st, err := store.Open(serveDB)
	if err != nil {
		return err
	}
	defer st.Close()

	if serveFormsDir != "" {
		if err := seedForms(cmd.Context(), st, serveFormsDir); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           server.New(st, serveDev).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", serveAddr, "db", serveDB)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// seedForms loads YAML form configurations and creates each one whose
// application type has no active configuration in the store yet.
func seedForms(ctx context.Context, st *store.Store, path string) error {
	registry := schema.NewRegistry()
	if err := registry.LoadFromPath(path); err != nil {
		return fmt.Errorf("loading form configurations: %w", err)
	}

	for _, f := range registry.All() {
		if _, err := st.GetActiveFormByType(ctx, f.ApplicationType); err == nil {
			slog.Debug("form type already configured, skipping seed",
				"type", f.ApplicationType, "form", f.Name)
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := st.Create(ctx, f); err != nil {
			return fmt.Errorf("seeding form %q: %w", f.Name, err)
		}
		slog.Info("seeded form configuration", "type", f.ApplicationType, "form", f.Name)
	}
	return nil
}
