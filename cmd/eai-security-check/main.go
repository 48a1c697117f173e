// eai-security-check audits a host's security posture against a YAML
// configuration, renders reports in several formats, and signs them so
// tampering is detectable.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eaiti/eai-security-check-sub001/pkg/logger"
)

// errExitFailure marks outcomes that are not program errors but must map
// to exit code 1: a failed audit or an invalid signature.
var errExitFailure = errors.New("exit failure")

var (
	logLevel  string
	logFormat string
	log       *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "eai-security-check",
	Short: "Audit a host's security posture",
	Long: `eai-security-check evaluates operating system security settings
(disk encryption, screen lock, firewall, updates, sharing services and
more) against a YAML configuration or a built-in profile, and produces
tamper-evident signed reports.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logger.New(logger.Config{Level: logLevel, Format: logFormat})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errExitFailure) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
