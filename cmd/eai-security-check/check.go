package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/eaiti/eai-security-check-sub001/internal/checker"
	"github.com/eaiti/eai-security-check-sub001/internal/config"
	"github.com/eaiti/eai-security-check-sub001/internal/engine"
	"github.com/eaiti/eai-security-check-sub001/internal/integrity"
	"github.com/eaiti/eai-security-check-sub001/internal/report"
)

var (
	checkConfigPath string
	checkProfile    string
	checkFormat     string
	checkOutput     string
	checkQuiet      bool
	checkSign       bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a security audit and print the report",
	Long: `Check evaluates the host against a security configuration. Only
sections present in the configuration are evaluated; the process exits 0
when every evaluated check passes and 1 otherwise.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkConfigPath, "config", "c", "", "path to a YAML security configuration")
	checkCmd.Flags().StringVarP(&checkProfile, "profile", "p", "default", "built-in profile (default, strict, relaxed, developer)")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "console", "report format (console, plain, markdown, json, email)")
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", "", "write the report to a file instead of stdout")
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "print only the one-line summary")
	checkCmd.Flags().BoolVar(&checkSign, "sign", false, "append a tamper-evident signature to the report")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadSecurityConfig()
	if err != nil {
		return err
	}

	chk, err := checker.New(log)
	if err != nil {
		return err
	}
	resolver := checker.NewLatestVersionResolver(log)
	eng := engine.New(chk, resolver, log)

	rep, err := eng.Audit(ctx, cfg)
	if err != nil {
		return err
	}

	if checkQuiet {
		fmt.Fprintln(cmd.OutOrStdout(), report.Summary(rep))
		if !rep.OverallPassed {
			return errExitFailure
		}
		return nil
	}

	format, err := report.ParseFormat(checkFormat)
	if err != nil {
		return err
	}

	info := chk.Platform(ctx)
	meta := report.Metadata{
		Platform:    info.OS,
		Hostname:    info.Hostname,
		GeneratedAt: time.Now().UTC(),
	}
	rendered := report.Render(rep, eng.PlatformWarning(ctx))
	doc, err := report.FormatReport(rep, rendered, format, meta)
	if err != nil {
		return err
	}

	if checkSign {
		signer, err := integrity.NewSigner()
		if err != nil {
			return err
		}
		signed, err := signer.Sign(doc.Content, integrity.Metadata{
			Platform:     info.OS,
			Hostname:     info.Hostname,
			Distribution: info.Distribution,
			ConfigSource: configSource(),
		})
		if err != nil {
			return err
		}
		doc.Content = signed.SignedContent
		log.Info().Str("short_hash", signed.ShortHash).Msg("report signed")
	}

	if checkOutput != "" {
		if err := os.WriteFile(checkOutput, []byte(doc.Content), 0o600); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		log.Info().Str("path", checkOutput).Msg("report written")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), doc.Content)
	}

	if !rep.OverallPassed {
		return errExitFailure
	}
	return nil
}

func loadSecurityConfig() (*config.SecurityConfig, error) {
	if checkConfigPath != "" {
		return config.Load(checkConfigPath)
	}
	return config.Profile(checkProfile)
}

func configSource() string {
	if checkConfigPath != "" {
		return checkConfigPath
	}
	return "profile:" + checkProfile
}
