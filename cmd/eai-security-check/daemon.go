package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/eaiti/eai-security-check-sub001/internal/daemon"
)

var (
	daemonConfigPath string
	daemonOnce       bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run scheduled audits and deliver signed reports",
	Long: `Daemon audits the host on a fixed interval, signs each report and
writes it to the configured output directory. Settings come from a daemon
configuration file plus EAI_SECURITY_CHECK_* environment variables.`,
	RunE: runDaemon,
}

func init() {
	daemonCmd.Flags().StringVarP(&daemonConfigPath, "config", "c", "", "path to the daemon configuration file")
	daemonCmd.Flags().BoolVar(&daemonOnce, "once", false, "run a single audit cycle and exit")
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	cfg, err := daemon.LoadConfig(daemonConfigPath)
	if err != nil {
		return err
	}

	d, err := daemon.New(*cfg, log)
	if err != nil {
		return err
	}

	if daemonOnce {
		return d.RunOnce(cmd.Context())
	}

	err = d.Run(cmd.Context())
	// A signal-driven shutdown is a clean exit.
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
