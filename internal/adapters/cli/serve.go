package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/anac-utility-go/internal/infrastructure/config"
	"github.com/andrescamacho/anac-utility-go/internal/infrastructure/pidfile"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the utility HTTP service",
		Long: `Run the HTTP service until interrupted.

When server.pid_file is configured, only one server may hold it at a time;
--force terminates the current holder first.

Example:
  anac-utility serve --config configs/config.yaml --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return Serve(cmd.Context(), cfg, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Terminate any running server holding the PID file")

	return cmd
}

// Serve runs the HTTP service until ctx is cancelled or the process receives
// SIGINT or SIGTERM
func Serve(ctx context.Context, cfg *config.Config, force bool) error {
	if cfg.Server.PIDFile != "" {
		release, err := acquirePIDFile(cfg, force)
		if err != nil {
			return err
		}
		defer release()
	}

	rt, err := NewRuntime(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt.Logging.Logger.Info("Starting utility server",
		"address", cfg.Server.Address(),
		"metrics", cfg.Metrics.Enabled,
		"rate_limit", cfg.Server.RateLimit.Requests,
	)

	if err := rt.Server().ListenAndServe(ctx); err != nil {
		return err
	}

	rt.Logging.Logger.Info("Utility server stopped")
	return nil
}

func acquirePIDFile(cfg *config.Config, force bool) (func(), error) {
	pf := pidfile.New(cfg.Server.PIDFile)

	err := pf.Acquire()
	var running *pidfile.AlreadyRunningError
	if errors.As(err, &running) && force {
		if killErr := pf.TerminateExisting(cfg.Server.ShutdownTimeout); killErr != nil {
			return nil, fmt.Errorf("failed to terminate existing server: %w", killErr)
		}
		err = pf.Acquire()
	}
	if err != nil {
		if errors.As(err, &running) {
			return nil, fmt.Errorf("%w\nUse --force to terminate it", err)
		}
		return nil, fmt.Errorf("failed to acquire PID file: %w", err)
	}

	return func() {
		if err := pf.Release(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to release PID file: %v\n", err)
		}
	}, nil
}
