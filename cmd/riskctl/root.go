package main

import (
	"encoding/json"

	"github.com/jengzang/guardian-backend-go/internal/config"
	"github.com/jengzang/guardian-backend-go/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "riskctl",
		Short:         "Guardian risk engine tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newEvaluateCmd(), newRulesCmd(), newTokenCmd())
	return root
}

// loadConfig reads the same environment as the server
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.NewLogger(cfg.Log.Level, "console", "riskctl")
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
