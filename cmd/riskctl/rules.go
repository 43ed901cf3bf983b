package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/jengzang/guardian-backend-go/internal/risk"
	"github.com/spf13/cobra"
)

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the rule cascade and thresholds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			th := cfg.Thresholds()
			engine := risk.NewEngine(th, nil)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PRIORITY\tREASON\tACTION")
			for i, rule := range engine.Rules() {
				fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, rule.Reason, rule.Action)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"\nvoice_distress>=%.2f weak_voice>%.2f stationary>=%ds poi<=%d radius=%.0fm tz=%+.1fh\n",
				th.VoiceDistress, th.WeakVoice, th.StationarySeconds, th.MaxIsolatedPOI, th.POIRadiusM, th.TZOffsetHours)
			return nil
		},
	}
}
