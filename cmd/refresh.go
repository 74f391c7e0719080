package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Force-fetch both datasets and update the snapshot store",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("refresh"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initService(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		ds, err := env.Service.Refresh(ctx)
		if err != nil {
			return eris.Wrap(err, "refresh")
		}

		zap.L().Info("refresh complete",
			zap.Int("events", ds.Stats.Events),
			zap.Int("metadata_rows", ds.Stats.MetadataRows),
			zap.Int("join_key_collisions", ds.Stats.Collisions),
			zap.Int("malformed_dates", ds.Stats.MalformedDates),
			zap.Bool("stale", ds.Stats.Stale),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
