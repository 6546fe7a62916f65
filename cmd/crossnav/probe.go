package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/crossnav/crossnav/internal/config"
	"github.com/crossnav/crossnav/internal/health"
	"github.com/crossnav/crossnav/internal/logging"
	"github.com/crossnav/crossnav/internal/registry"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Probe every registered application once and print the results.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProbe(cmd)
	},
}

func runProbe(cmd *cobra.Command) error {
	if _, err := logging.BootstrapFromEnv("crossnav probe", os.Stderr); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	reg, err := registry.Load(cfg.RegistryPath, cfg.AppID)
	if err != nil {
		return err
	}

	monitor := health.NewMonitor(reg, cfg.ProbeInterval, cfg.ProbeTimeout)
	statuses := monitor.ProbeAll(cmd.Context())

	ids := make([]string, 0, len(statuses))
	for id := range statuses {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	unreachable := 0
	for _, id := range ids {
		st := statuses[id]
		latency := "-"
		if st.LastLatencyMs != nil {
			latency = fmt.Sprintf("%dms", *st.LastLatencyMs)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-16s %-10s %s\n", id, st.State, latency)
		if st.State == health.StateError {
			unreachable++
		}
	}

	if unreachable > 0 {
		return &exitError{code: 1, err: fmt.Errorf("%d application(s) unreachable", unreachable)}
	}
	return nil
}
