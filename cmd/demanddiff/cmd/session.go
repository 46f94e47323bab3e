package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/dbsmedya/demanddiff/internal/config"
	"github.com/dbsmedya/demanddiff/internal/database"
	"github.com/dbsmedya/demanddiff/internal/logger"
	"github.com/dbsmedya/demanddiff/internal/report"
	"github.com/dbsmedya/demanddiff/internal/store"
	"github.com/spf13/cobra"
)

// loadConfig loads the config file, applies CLI overrides and validates.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.OutputFormat, overrides.OutputPath, overrides.NoColor)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session holds the logger and store connections of one command run.
type session struct {
	log    *logger.Logger
	db     *database.Manager
	stores *store.Set
}

func openSession(ctx context.Context, cfg *config.Config) (*session, error) {
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	dbManager := database.NewManager(cfg)
	if err := dbManager.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to stores: %w", err)
	}

	return &session{
		log:    log,
		db:     dbManager,
		stores: store.FromManager(dbManager, cfg, log),
	}, nil
}

func (s *session) Close() {
	if err := s.db.Close(); err != nil {
		s.log.Warnw("Failed to close stores", "error", err)
	}
	_ = s.log.Sync()
}

// writeReport renders t to stdout, or to the configured output file.
// Files never get color escapes.
func writeReport(cmd *cobra.Command, out *config.OutputConfig, t report.Tabular) error {
	renderer, err := report.NewRenderer(out.Format, out.Color && out.Path == "")
	if err != nil {
		return err
	}

	if out.Path == "" {
		return renderer.Render(cmd.OutOrStdout(), t)
	}

	f, err := os.Create(out.Path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := renderer.Render(f, t); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	cmd.Printf("Report written to %s\n", out.Path)
	return nil
}
