package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dawidgorecki/clamav"
	"github.com/dawidgorecki/clamav/internal/config"
)

// errInfected marks a completed run that found at least one infected file.
// It maps to exit code 1; every other failure maps to exit code 2.
var errInfected = errors.New("infected file found")

// NewRootCmd creates the root command for clamdscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clamdscan",
		Short: "Scan files with a ClamAV daemon over TCP",
		Long: `clamdscan streams files to a running ClamAV daemon (clamd) using the
INSTREAM protocol and reports the verdict for each file.

The daemon endpoint comes from flags, a configuration file
(.clamdscan.yaml in the current directory or clamdscan/config.yaml in
the XDG config directory), or the defaults (localhost:3310).

Exit codes follow the clamscan convention: 0 when all files are clean,
1 when an infected file was found, 2 on errors.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("host", config.DefaultHost, "clamd daemon host")
	cmd.PersistentFlags().IntP("port", "p", config.DefaultPort, "clamd daemon TCP port")
	cmd.PersistentFlags().Duration("connect-timeout", config.DefaultConnectTimeout,
		"Timeout for connecting to the daemon")
	cmd.PersistentFlags().Duration("read-timeout", config.DefaultReadTimeout,
		"Timeout for reading a daemon reply")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .clamdscan.yaml in the current directory)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewPingCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and maps the outcome to an exit code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	switch {
	case err == nil:
	case errors.Is(err, errInfected):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

// buildConfig merges defaults, the configuration file, and flags, with flags
// taking precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	explicit, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}

	cfg := config.Default()
	if path := config.FindConfigFile(explicit); path != "" {
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	} else if explicit != "" {
		return nil, fmt.Errorf("configuration file not found: %s", explicit)
	}

	if flags.Changed("host") {
		cfg.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("connect-timeout") {
		cfg.ConnectTimeout, _ = flags.GetDuration("connect-timeout")
	}
	if flags.Changed("read-timeout") {
		cfg.ReadTimeout, _ = flags.GetDuration("read-timeout")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// newClient builds a clamav.Client from the resolved configuration.
func newClient(cmd *cobra.Command) (*clamav.Client, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")

	return clamav.NewClient(cfg.Host, cfg.Port,
		clamav.WithConnectTimeout(cfg.ConnectTimeout),
		clamav.WithReadTimeout(cfg.ReadTimeout),
		clamav.WithLogger(setupLogger(verbose)),
	)
}

// setupLogger returns a text logger on stderr, at debug level when verbose.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
