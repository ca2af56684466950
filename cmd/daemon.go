package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/grovetools/gitstatus/cli"
	"github.com/grovetools/gitstatus/engine"
	"github.com/grovetools/gitstatus/internal/daemon/pidfile"
	"github.com/grovetools/gitstatus/internal/daemon/server"
	"github.com/grovetools/gitstatus/logging"
	"github.com/grovetools/gitstatus/pkg/paths"
)

// NewDaemonCmd returns the daemon command with subcommands.
func NewDaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the status daemon",
		Long:  "Run the polling engine as a long-lived daemon serving snapshots over a unix socket.",
	}

	cmd.AddCommand(newDaemonStartCmd())
	cmd.AddCommand(newDaemonStopCmd())
	cmd.AddCommand(newDaemonStatusCmd())

	return cmd
}

func newDaemonStartCmd() *cobra.Command {
	var workDir string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the daemon",
		Long:  "Start the gitstatus daemon in foreground mode.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewLogger("gitstatusd")
			pidPath := paths.PidFilePath()
			sockPath := paths.SocketPath()

			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if err := paths.EnsureDirs(); err != nil {
				return fmt.Errorf("failed to create state directories: %w", err)
			}

			// 1. Acquire lock
			if err := pidfile.Acquire(pidPath); err != nil {
				return fmt.Errorf("failed to start: %w", err)
			}
			defer func() {
				if err := pidfile.Release(pidPath); err != nil {
					logger.Errorf("Failed to release pidfile: %v", err)
				}
			}()

			// 2. Setup engine
			var opts []engine.Option
			if workDir != "" {
				opts = append(opts, engine.WithWorkDir(workDir))
			}
			eng := engine.New(cfg, logger, opts...)

			// 3. Setup server with engine
			srv := server.New(logger)
			srv.SetEngine(eng)
			srv.SetRunningConfig(&server.RunningConfig{
				AutoFetchInterval: time.Duration(cfg.AutoFetchIntervalMs) * time.Millisecond,
				StatusTimeout:     time.Duration(cfg.StatusTimeoutMs) * time.Millisecond,
				Cooldown:          time.Duration(cfg.CooldownMs) * time.Millisecond,
				StartedAt:         time.Now(),
			})

			// 4. Handle signals
			ctx, cancel := context.WithCancel(context.Background())
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

			go func() {
				<-stop
				logger.Info("Received stop signal")
				cancel()

				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()

				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Errorf("Server shutdown error: %v", err)
				}

				_ = pidfile.Release(pidPath)
				os.Exit(0)
			}()

			// 5. Start engine in background
			go eng.Start(ctx)

			// 6. Start server (blocking)
			logger.WithField("pid", os.Getpid()).Info("Starting daemon")
			if err := srv.ListenAndServe(sockPath); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workDir, "dir", "d", "", "Repository working directory to watch")
	return cmd
}

func newDaemonStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			pidPath := paths.PidFilePath()

			running, pid, err := pidfile.IsRunning(pidPath)
			if err != nil {
				return fmt.Errorf("error checking status: %w", err)
			}

			if !running {
				fmt.Println("Daemon is not running")
				return nil
			}

			process, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("failed to find process %d: %w", pid, err)
			}

			if err := process.Signal(syscall.SIGTERM); err != nil {
				return fmt.Errorf("failed to send stop signal: %w", err)
			}

			fmt.Printf("Sent SIGTERM to process %d\n", pid)
			return nil
		},
	}
}

func newDaemonStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			pidPath := paths.PidFilePath()
			running, pid, err := pidfile.IsRunning(pidPath)

			if err != nil {
				return fmt.Errorf("error: %w", err)
			}

			if running {
				fmt.Printf("Running (PID: %d)\nSocket: %s\n", pid, paths.SocketPath())
			} else {
				fmt.Println("Stopped")
				os.Exit(1) // Return non-zero for stopped state (useful for scripts)
			}
			return nil
		},
	}
}
