package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpggio/streaks/internal/app"
	"github.com/rpggio/streaks/internal/config"
	"github.com/rpggio/streaks/internal/sqlite"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "streaks",
		Short:        "Habit tracker server with MCP tools",
		Version:      version,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML or TOML config file (default $STREAKS_CONFIG_PATH)")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newStatsCmd(opts),
		newAPIKeyCmd(opts),
	)
	return cmd
}

func (o *rootOptions) load() (config.Config, error) {
	var cfg config.Config
	var err error
	if o.configPath == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFile(o.configPath)
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger. Stdio mode logs to stderr so stdout
// stays clean for JSON-RPC; a configured path rotates through lumberjack.
func newLogger(cfg config.Config) (*slog.Logger, func()) {
	var out io.Writer = os.Stdout
	closeLog := func() {}
	if cfg.Transport.Mode == "stdio" {
		out = os.Stderr
	}
	if cfg.Log.Path != "" {
		if err := ensureDir(cfg.Log.Path); err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			rotating := &lumberjack.Logger{
				Filename:   cfg.Log.Path,
				MaxSize:    cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
			}
			out = rotating
			closeLog = func() { _ = rotating.Close() }
		}
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	return logger, closeLog
}

// openDB opens the configured database and brings its schema up to date.
func openDB(cfg config.Config) (*sqlite.DB, error) {
	if err := ensureDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("failed to prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func buildApp(cfg config.Config, db *sqlite.DB, opts app.Options) *app.App {
	opts.Location = cfg.Location()
	opts.DefaultCategory = cfg.Categories.DefaultTitle
	return app.New(db, opts)
}

func ensureDir(path string) error {
	if path == ":memory:" || path == "" || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
