package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jengzang/guardian-backend-go/internal/app"
	"github.com/jengzang/guardian-backend-go/internal/models"
	"github.com/jengzang/guardian-backend-go/internal/risk"
	"github.com/spf13/cobra"
)

type evaluateOptions struct {
	subject    string
	lat        float64
	lon        float64
	stationary int64
	ts         int64
	voice      float64
	poi        int
}

func newEvaluateCmd() *cobra.Command {
	opts := &evaluateOptions{}
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one set of signals",
		Long: `Run the risk engine once with the configured thresholds and print the decision.
The POI count is fetched live unless --poi is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.subject, "subject", "cli", "subject ID")
	flags.Float64Var(&opts.lat, "lat", 0, "latitude")
	flags.Float64Var(&opts.lon, "lon", 0, "longitude")
	flags.Int64Var(&opts.stationary, "stationary", 0, "stationary seconds")
	flags.Int64Var(&opts.ts, "ts", 0, "unix timestamp (default now)")
	flags.Float64Var(&opts.voice, "voice", 0, "voice distress probability")
	flags.IntVar(&opts.poi, "poi", -1, "fixed POI count instead of a live lookup")
	return cmd
}

func runEvaluate(cmd *cobra.Command, opts *evaluateOptions) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	in := risk.Input{
		SubjectID:         opts.subject,
		Latitude:          opts.lat,
		Longitude:         opts.lon,
		StationarySeconds: opts.stationary,
		Timestamp:         opts.ts,
	}
	if cmd.Flags().Changed("voice") {
		if opts.voice < 0 || opts.voice > 1 {
			return fmt.Errorf("--voice must be within [0,1]")
		}
		in.VoiceProb = &opts.voice
	}

	var probe risk.DensityProbe
	if opts.poi >= 0 {
		probe = risk.DensityFunc(func(context.Context, float64, float64, float64) models.PoiDensity {
			return models.PoiDensity{Count: opts.poi}
		})
	} else {
		probe = app.NewDensityProbe(cfg, nil, log)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.POI.Timeout+5*time.Second)
	defer cancel()

	decision := app.NewEngine(cfg, probe, log).Evaluate(ctx, in)
	return printJSON(cmd, decision)
}
