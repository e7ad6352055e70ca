package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	pagesplice "github.com/alnah/go-pagesplice"
	"github.com/alnah/go-pagesplice/internal/hints"
)

// runRun transforms every document of the selected families.
// Per-document failures never stop the batch; they are counted and turn
// the command's error into ErrDocumentsFailed at the end.
func runRun(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRunFlags(args)
	if err != nil {
		return err
	}

	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig()

	cfg, err := loadConfig(flags.common.config, flags.target.root, envCfg)
	if err != nil {
		return err
	}
	if err := checkRoot(cfg); err != nil {
		return err
	}

	names := positional
	if len(names) == 0 {
		names = envCfg.Families
	}
	selected, err := selectFamilies(cfg, names)
	if err != nil {
		return err
	}

	dryRun := flags.target.dryRun || envCfg.DryRun
	opts := []pagesplice.Option{
		pagesplice.WithDryRun(dryRun),
		pagesplice.WithLogger(env.Logger),
	}

	// Compile every family before touching any document.
	engines := make([]*pagesplice.Engine, 0, len(selected))
	for _, fc := range selected {
		eng, err := pagesplice.New(buildFamily(cfg, fc), opts...)
		if err != nil {
			if errors.Is(err, pagesplice.ErrUnknownEncoding) {
				return fmt.Errorf("%w%s", err, hints.ForUnknownEncoding())
			}
			return err
		}
		engines = append(engines, eng)
	}

	start := env.Now()
	var all []pagesplice.Result
	for _, eng := range engines {
		results, interrupted := processFamily(ctx, eng)
		all = append(all, results...)
		printFamilyResults(eng.Family().Name, results, flags.common.quiet, flags.common.verbose, env)
		if interrupted {
			printSummary(all, flags.common.quiet, dryRun, env)
			return fmt.Errorf("%w: stopped after %d document(s)", ErrInterrupted, len(all))
		}
	}

	summary := printSummary(all, flags.common.quiet, dryRun, env)
	env.Logger.Info("run complete",
		zap.Int("converted", summary.Converted),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Bool("dry_run", dryRun),
		zap.Duration("elapsed", env.Now().Sub(start).Round(time.Millisecond)),
	)

	if summary.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrDocumentsFailed, summary.Failed, len(all))
	}
	return nil
}
