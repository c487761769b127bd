package main

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/spf13/cobra"
)

// NewPingCmd creates the ping command.
func NewPingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the ClamAV daemon answers PING",
		Long: `Ping sends a PING command to the daemon and succeeds if it answers PONG.

With --wait, the probe is retried with exponential backoff until the
daemon answers or the duration elapses, which is useful while waiting
for a freshly started daemon to load its signature databases.`,
		Args: cobra.NoArgs,
		RunE: runPingCmd,
	}

	cmd.Flags().DurationP("wait", "w", 0,
		"Retry with exponential backoff until the daemon answers or this duration elapses")

	return cmd
}

// runPingCmd executes the ping command.
func runPingCmd(cmd *cobra.Command, _ []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	wait, err := cmd.Flags().GetDuration("wait")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	probe := func() error {
		if !client.Ping(ctx) {
			return fmt.Errorf("no PONG from %s", client.Address())
		}
		return nil
	}

	if wait > 0 {
		expBackoff := backoff.NewExponentialBackOff()
		expBackoff.MaxElapsedTime = wait
		expBackoff.InitialInterval = 500 * time.Millisecond

		err = backoff.Retry(probe, backoff.WithContext(expBackoff, ctx))
	} else {
		err = probe()
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "PONG")
	return nil
}
