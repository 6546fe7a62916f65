package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:           "crossnav",
	Short:         "Crossnav is the navigation federation sidecar for sibling web applications.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd, probeCmd, validateCmd)
}
