package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tinoosan/fanbase/internal/action"
	"github.com/tinoosan/fanbase/internal/config"
	"github.com/tinoosan/fanbase/internal/invalidation"
	"github.com/tinoosan/fanbase/internal/permission"
	"github.com/tinoosan/fanbase/internal/provider"
)

const programName = "fanbase"

var configFile string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serve := serveCommand()
	root := &cobra.Command{
		Use:           programName,
		Short:         "Fan community data service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to YAML config file")
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	}
	root.AddCommand(serve, rankingsCommand(), seedCommand())

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app is everything a command needs once the backend is open.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	provider *provider.Provider
	bus      *invalidation.Bus
	run      *action.Runner
}

func (a *app) Close() {
	a.bus.Close()
	a.provider.Close()
}

// open builds the logger, backend and action runner from the command's config.
func open(cmd *cobra.Command) (*app, error) {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		return nil, fmt.Errorf("no config found in context")
	}
	logger := cfg.Logger(os.Stdout)
	slog.SetDefault(logger)

	p, err := provider.New(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, err
	}
	bus := invalidation.NewBus(logger)
	perms := permission.NewResolver(action.ProfileRoles{Profiles: p.Profiles()})
	return &app{
		cfg:      cfg,
		log:      logger,
		provider: p,
		bus:      bus,
		run:      action.NewRunner(logger, perms, bus),
	}, nil
}
