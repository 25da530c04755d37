package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/chorejar/internal/config"
	"github.com/sandeepkv93/chorejar/internal/rewards"
	"github.com/sandeepkv93/chorejar/internal/scheduler"
	"github.com/sandeepkv93/chorejar/internal/storage"
	"github.com/sandeepkv93/chorejar/internal/update"
	"github.com/spf13/cobra"
)

var Version = "dev"

type globalFlags struct {
	configPath string
	backend    string
	statePath  string
}

func main() {
	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:     "chorejar",
		Short:   "chorejar - chores, stars and pocket money for the family",
		Version: Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), flags)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (.toml or .yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.backend, "backend", "", "storage backend: file, sqlite, redis, postgres, memory")
	rootCmd.PersistentFlags().StringVar(&flags.statePath, "state", "", "state file or database path")

	rootCmd.AddCommand(serveCmd(flags))
	rootCmd.AddCommand(statusCmd(flags))
	rootCmd.AddCommand(exchangeCmd(flags))
	rootCmd.AddCommand(exportCmd(flags))
	rootCmd.AddCommand(importCmd(flags))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig applies command-line overrides on top of config.Load.
func loadConfig(flags *globalFlags) (config.RuntimeConfig, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.RuntimeConfig{}, err
	}
	if flags.backend != "" {
		cfg.Storage.Backend = flags.backend
	}
	if flags.statePath != "" {
		cfg.Storage.Path = flags.statePath
	}
	if err := cfg.Validate(); err != nil {
		return config.RuntimeConfig{}, err
	}
	return cfg, nil
}

// app is everything a subcommand needs to talk to the saved state.
type app struct {
	cfg    config.RuntimeConfig
	logger *log.Logger
	store  *storage.Store
	svc    *rewards.Service
}

func openApp(ctx context.Context, cfg config.RuntimeConfig, logger *log.Logger, notifier rewards.Notifier) (*app, error) {
	store, err := storage.Open(ctx, cfg.StorageOptions(), logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	svc, err := startService(ctx, store, logger, notifier)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, store: store, svc: svc}, nil
}

// startService loads the saved state and runs the startup checks. A state
// that exists but cannot be read stops startup, since the checks would save
// defaults over it.
func startService(ctx context.Context, store *storage.Store, logger *log.Logger, notifier rewards.Notifier) (*rewards.Service, error) {
	st, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s (%w)", storage.UserMessage(err), err)
	}
	svc, err := rewards.NewService(st, store, rewards.Options{
		Notifier: notifier,
		Logger:   logger.With("component", "rewards"),
	})
	if err != nil {
		return nil, err
	}
	res, err := svc.Startup(ctx)
	if err != nil {
		// The app still runs on the in-memory state; the next change retries the save.
		logger.Warn("startup checks failed", "err", err)
	} else if res.Rollover.Ran || res.Seeded {
		logger.Info("startup", "rollover", res.Rollover.Ran, "weekly", res.WeeklyCaptured, "seeded", res.Seeded)
	}
	return svc, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func runTUI(ctx context.Context, flags *globalFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := cfg.NewLogger(logOut)

	events := update.NewEventQueue()
	a, err := openApp(ctx, cfg, logger, events)
	if err != nil {
		return err
	}
	defer a.Close()

	engine := scheduler.NewEngine(cfg.SchedulerBuffer)
	engine.Start()
	defer engine.Stop()
	if err := scheduler.ScheduleDaily(engine, time.Now(), cfg.NudgeHour); err != nil {
		logger.Warn("schedule daily events", "err", err)
	}

	opts := update.Options{
		Scheduler:      engine,
		Events:         events,
		NudgeHour:      cfg.NudgeHour,
		DesktopEnabled: cfg.DesktopNotifications,
		Logger:         logger.With("component", "tui"),
	}
	if cfg.DesktopNotifications {
		opts.Notifier = update.ExecDesktopNotifier{}
	}

	program := tea.NewProgram(update.NewModel(a.svc, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("chorejar failed: %w", err)
	}
	return nil
}
