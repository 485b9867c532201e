// Package cli описывает cobra-команды бинарника cbtquiz.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/letsssgooo/cbtquiz/internal/config"
	"github.com/letsssgooo/cbtquiz/internal/lib/slogcustom"
)

var version = "dev" // задаётся через ldflags при сборке

// globalFlags — флаги, общие для всех команд.
type globalFlags struct {
	configPath string
	logLevel   string
}

func (f *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.configPath, "config", "c", "", "path to config file (default ./"+config.DefaultFile+" if present)")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// load читает конфигурацию и применяет поверх неё флаги.
func (f *globalFlags) load() (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}

	return cfg, nil
}

// NewRootCmd собирает дерево команд.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "cbtquiz",
		Short: "CBT practice server for multiple-choice question banks",
		Long: `cbtquiz serves multiple-choice question banks stored as CSV files.
Questions can be practiced one at a time with instant grading, or taken
as a randomized exam block graded at the end.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags.register(root.PersistentFlags())

	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newValidateCmd(flags))
	root.AddCommand(newConfigCmd(flags))

	return root
}

// Execute запускает корневую команду. Вызывается из main.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseLevel(value string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		return 0, fmt.Errorf("%w, unknown log level %q", config.ErrInvalid, value)
	}

	return level, nil
}

// setupLogger настраивает slog по умолчанию.
func setupLogger(cfg config.LogConfig) error {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return err
	}

	var handler slog.Handler
	if cfg.Color {
		handler = slogcustom.NewCustomHandler(os.Stdout, level)
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	slog.SetDefault(slog.New(handler))

	return nil
}
