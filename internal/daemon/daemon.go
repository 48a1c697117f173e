// Package daemon runs scheduled security audits and delivers signed
// reports on an interval.
package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/eaiti/eai-security-check-sub001/internal/checker"
	"github.com/eaiti/eai-security-check-sub001/internal/config"
	"github.com/eaiti/eai-security-check-sub001/internal/engine"
	"github.com/eaiti/eai-security-check-sub001/internal/integrity"
	"github.com/eaiti/eai-security-check-sub001/internal/report"
	"github.com/eaiti/eai-security-check-sub001/pkg/logger"
)

const (
	deliveryAttempts = 3
	deliveryDelay    = 2 * time.Second
	deliveryMaxDelay = 30 * time.Second
)

// Daemon audits the host on a fixed interval and hands each signed report
// to its Deliverer. State survives restarts via the state file.
type Daemon struct {
	cfg       Config
	secCfg    *config.SecurityConfig
	engine    *engine.Engine
	checker   checker.Checker
	signer    *integrity.Signer
	deliverer Deliverer
	state     *State
	log       *logger.Logger
}

// New assembles a daemon from its configuration: it resolves the security
// config (file or named profile), builds the platform checker and engine,
// loads the signing key and prior state.
func New(cfg Config, log *logger.Logger) (*Daemon, error) {
	secCfg, err := resolveSecurityConfig(cfg)
	if err != nil {
		return nil, err
	}

	chk, err := checker.New(log)
	if err != nil {
		return nil, err
	}

	signer, err := integrity.NewSigner()
	if err != nil {
		return nil, err
	}

	state, err := LoadState(cfg.StatePath)
	if err != nil {
		return nil, err
	}

	resolver := checker.NewLatestVersionResolver(log)
	return &Daemon{
		cfg:       cfg,
		secCfg:    secCfg,
		engine:    engine.New(chk, resolver, log),
		checker:   chk,
		signer:    signer,
		deliverer: &FileDeliverer{Dir: cfg.OutputDir},
		state:     state,
		log:       log.WithComponent("daemon"),
	}, nil
}

func resolveSecurityConfig(cfg Config) (*config.SecurityConfig, error) {
	if cfg.ConfigPath != "" {
		return config.Load(cfg.ConfigPath)
	}
	return config.Profile(cfg.Profile)
}

// Run executes one audit immediately, then one per interval until the
// context is cancelled. Individual run failures are logged, not fatal:
// the next tick retries from scratch.
func (d *Daemon) Run(ctx context.Context) error {
	if d.state.DaemonStarted.IsZero() {
		d.state.DaemonStarted = time.Now().UTC()
	}
	d.log.Info().
		Dur("interval", d.cfg.Interval).
		Str("output_dir", d.cfg.OutputDir).
		Msg("daemon started")

	if err := d.runOnce(ctx); err != nil {
		d.log.WithError(err).Error().Msg("scheduled audit failed")
	}

	ticker := time.NewTicker(d.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.log.Info().Msg("daemon stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := d.runOnce(ctx); err != nil {
				d.log.WithError(err).Error().Msg("scheduled audit failed")
			}
		}
	}
}

// RunOnce performs a single audit/sign/deliver cycle. Exposed for the
// one-shot daemon invocation.
func (d *Daemon) RunOnce(ctx context.Context) error {
	return d.runOnce(ctx)
}

func (d *Daemon) runOnce(ctx context.Context) error {
	rep, err := d.engine.Audit(ctx, d.secCfg)
	if err != nil {
		return err
	}

	info := d.checker.Platform(ctx)
	meta := report.Metadata{
		Platform:    info.OS,
		Hostname:    info.Hostname,
		GeneratedAt: time.Now().UTC(),
	}

	format, err := report.ParseFormat(d.cfg.Format)
	if err != nil {
		return err
	}
	rendered := report.Render(rep, d.engine.PlatformWarning(ctx))
	doc, err := report.FormatReport(rep, rendered, format, meta)
	if err != nil {
		return err
	}

	signed, err := d.signer.Sign(doc.Content, integrity.Metadata{
		Platform:     info.OS,
		Hostname:     info.Hostname,
		Distribution: info.Distribution,
		ConfigSource: d.configSource(),
	})
	if err != nil {
		return err
	}
	doc.Content = signed.SignedContent

	if err := d.deliver(ctx, doc); err != nil {
		return err
	}

	d.state.LastReportSent = time.Now().UTC()
	d.state.TotalReportsGenerated++
	if err := d.state.Save(d.cfg.StatePath); err != nil {
		d.log.WithError(err).Warn().Msg("failed to persist daemon state")
	}

	passed, failed := rep.Counts()
	d.log.Info().
		Str("report", doc.Filename).
		Str("short_hash", signed.ShortHash).
		Int("passed", passed).
		Int("failed", failed).
		Msg("report delivered")
	return nil
}

// deliver retries transient delivery failures with backoff before giving up
// until the next tick.
func (d *Daemon) deliver(ctx context.Context, doc report.Document) error {
	err := retry.Do(
		func() error { return d.deliverer.Deliver(ctx, doc) },
		retry.Attempts(deliveryAttempts),
		retry.Delay(deliveryDelay),
		retry.MaxDelay(deliveryMaxDelay),
		retry.Context(ctx),
	)
	if err != nil {
		return fmt.Errorf("report delivery failed: %w", err)
	}
	return nil
}

func (d *Daemon) configSource() string {
	if d.cfg.ConfigPath != "" {
		return d.cfg.ConfigPath
	}
	return "profile:" + d.cfg.Profile
}
