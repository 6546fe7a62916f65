package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crossnav/crossnav/internal/config"
	"github.com/crossnav/crossnav/internal/dataflow"
	"github.com/crossnav/crossnav/internal/logging"
	"github.com/crossnav/crossnav/internal/registry"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the application registry and data-flow feed files.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd)
	},
}

func runValidate(cmd *cobra.Command) error {
	if _, err := logging.BootstrapFromEnv("crossnav validate", os.Stderr); err != nil {
		return err
	}

	cfg, err := config.LoadOptionalAppID()
	if err != nil {
		return err
	}

	localID := cfg.AppID
	reg, err := registry.Load(cfg.RegistryPath, localID)
	if err != nil {
		return fmt.Errorf("registry %s: %w", cfg.RegistryPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "registry %s: %d application(s)\n", cfg.RegistryPath, len(reg.List()))

	if cfg.DataFlowPath != "" {
		tracker := dataflow.NewTracker(reg)
		if err := tracker.LoadFile(cfg.DataFlowPath); err != nil {
			return fmt.Errorf("data-flow feed %s: %w", cfg.DataFlowPath, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "data-flow feed %s: %d link(s)\n", cfg.DataFlowPath, len(tracker.Snapshot()))
	}

	return nil
}
