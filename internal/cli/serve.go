// serve.go — команда "cbtquiz serve".
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/letsssgooo/cbtquiz/internal/config"
	"github.com/letsssgooo/cbtquiz/internal/engine"
	"github.com/letsssgooo/cbtquiz/internal/images"
	"github.com/letsssgooo/cbtquiz/internal/questions"
	"github.com/letsssgooo/cbtquiz/internal/storage"
	"github.com/letsssgooo/cbtquiz/internal/storage/postgres"
	"github.com/letsssgooo/cbtquiz/internal/storage/sqlite"
	"github.com/letsssgooo/cbtquiz/internal/web"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Long: `Run the practice and exam web server.
Dataset files are read from data.csv_dir; the server refuses to start
when the directory holds no CSV files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			if err := setupLogger(cfg.Log); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", config.DefaultConfig().Server.Addr, "listen address")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if cfg.Data.AutoExtract {
		if _, err := images.EnsureExtracted(cfg.Data.ImageDir, cfg.Data.ImageArchive); err != nil {
			return fmt.Errorf("extracting images: %w", err)
		}
	}

	library := questions.NewLibrary(cfg.Data.CSVDir)

	names, err := library.List()
	if err != nil {
		return fmt.Errorf("listing datasets: %w", err)
	}
	slog.Info("datasets found", "dir", cfg.Data.CSVDir, "count", len(names))

	st, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("failed to close storage", "error", err)
		}
	}()

	e := engine.NewEngine(library, st, cfg.Exam.Size)

	server := web.NewServer(e, images.NewResolver(cfg.Data.ImageDir), web.Options{
		Title:      cfg.Server.Title,
		Slider:     cfg.UI.Slider,
		ShowAnswer: cfg.UI.ShowAnswer,
	})

	return server.Run(ctx, cfg.Server.Addr)
}

func openStorage(ctx context.Context, cfg config.StorageConfig) (storage.Storage, error) {
	slog.Info("opening storage", "driver", cfg.Driver)

	switch cfg.Driver {
	case config.DriverSQLite:
		st, err := sqlite.NewStorage(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite storage: %w", err)
		}
		return st, nil
	case config.DriverPostgres:
		st, err := postgres.NewStorage(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening postgres storage: %w", err)
		}
		return st, nil
	default:
		return storage.NewMemoryStorage(), nil
	}
}
