// ned entrypoint: fit and chart plot-ready spectral energy distribution
// tables.
//
// Sources are named two ways:
//  1. Positional table paths: each becomes one chart named after the file.
//  2. A YAML manifest (--sources): per-source names, titles and output paths.
//
// Settings resolve flag over NED_* environment over built-in default. The
// fitting policy decides how far each source goes: nofit renders raw points,
// fit overlays an unwindowed power law, rate fits inside the cutoff window
// and annotates the ionising photon rate.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/willat8/ned/src/config"
	"github.com/willat8/ned/src/pipeline"
	"github.com/willat8/ned/src/uvfit"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	defaults, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load configuration")
	}
	if err := newRootCmd(defaults).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(defaults *config.Run) *cobra.Command {
	var (
		lower    float64
		upper    float64
		policyID string
		manifest string
		outDir   string
		outPath  string
		title    string
		logLevel string
	)
	cmd := &cobra.Command{
		Use:          "ned [table ...]",
		Short:        "Fit and chart spectral energy distributions",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setLogLevel(logLevel); err != nil {
				return err
			}
			policy, err := uvfit.ParsePolicy(policyID)
			if err != nil {
				return err
			}
			w := uvfit.Window{Lower: lower, Upper: upper}
			if err := w.Validate(); err != nil {
				return err
			}
			sources, err := gatherSources(manifest, args, outPath, title)
			if err != nil {
				return err
			}
			cfg := pipeline.Config{Window: w, Policy: policy, OutDir: outDir}
			return runAll(cfg, sources)
		},
	}
	cmd.Flags().Float64Var(&lower, "lower-cutoff", defaults.LowerCutoff, "lower frequency cutoff in Hz")
	cmd.Flags().Float64Var(&upper, "upper-cutoff", defaults.UpperCutoff, "upper frequency cutoff in Hz")
	cmd.Flags().StringVar(&policyID, "policy", defaults.Policy, "fitting policy: nofit, fit or rate")
	cmd.Flags().StringVar(&manifest, "sources", "", "YAML manifest naming the sources to chart")
	cmd.Flags().StringVar(&outDir, "out-dir", defaults.OutDir, "directory for generated charts")
	cmd.Flags().StringVar(&outPath, "out", "", "output path (single table only)")
	cmd.Flags().StringVar(&title, "title", "", "chart title (single table only)")
	cmd.Flags().StringVar(&logLevel, "log-level", defaults.LogLevel, "log level: debug, info, warn or error")
	return cmd
}

func setLogLevel(level string) error {
	lv, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("unknown log level %q", level)
	}
	zerolog.SetGlobalLevel(lv)
	return nil
}

// gatherSources resolves the run's source list from either the manifest or
// the positional table paths, never both.
func gatherSources(manifest string, args []string, outPath, title string) ([]pipeline.Source, error) {
	if manifest != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("--sources and positional tables are mutually exclusive")
		}
		specs, err := config.LoadSources(manifest)
		if err != nil {
			return nil, err
		}
		srcs := make([]pipeline.Source, len(specs))
		for i, s := range specs {
			srcs[i] = pipeline.Source{Name: s.Name, Table: s.Table, Title: s.Title, Out: s.Out}
		}
		return srcs, nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("no tables given: pass table paths or --sources")
	}
	if (outPath != "" || title != "") && len(args) > 1 {
		return nil, fmt.Errorf("--out and --title apply to a single table")
	}
	srcs := make([]pipeline.Source, len(args))
	for i, path := range args {
		srcs[i] = pipeline.Source{Table: path}
	}
	if len(srcs) == 1 {
		srcs[0].Out = outPath
		srcs[0].Title = title
	}
	return srcs, nil
}

// runAll processes sources in order. A failed source is logged and counted
// but never stops the batch.
func runAll(cfg pipeline.Config, sources []pipeline.Source) error {
	failed := 0
	for _, src := range sources {
		res, err := pipeline.Run(cfg, src)
		if err != nil {
			failed++
			log.Error().Str("source", src.DisplayName()).Err(err).Msg("source failed")
			continue
		}
		reportResult(cfg, res)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sources failed", failed, len(sources))
	}
	return nil
}

// reportResult emits the per-source summary line the batch is run for.
func reportResult(cfg pipeline.Config, res pipeline.Result) {
	ev := log.Info().Str("source", res.Source).Int("records", res.Records).Str("chart", res.OutPath)
	switch {
	case res.FitErr != nil:
		ev.Str("reason", res.FitErr.Error()).Msg("rendered raw points only")
	case !res.Fit.Valid:
		ev.Msg("rendered raw points")
	case res.Rate.Defined():
		ev.Float64("slope", res.Fit.Slope).Float64("intercept", res.Fit.Intercept).Int("points", res.Fit.N).
			Float64("log10_rate", res.Rate.Log10).Msg("ionising photon rate")
	case cfg.Policy == uvfit.WindowedFitWithRate:
		ev.Float64("slope", res.Fit.Slope).Float64("intercept", res.Fit.Intercept).Int("points", res.Fit.N).
			Msg("ionising photon rate undefined")
	default:
		ev.Float64("slope", res.Fit.Slope).Float64("intercept", res.Fit.Intercept).Int("points", res.Fit.N).
			Msg("fitted power law")
	}
}
