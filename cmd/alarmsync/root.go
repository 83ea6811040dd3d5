package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	configPath string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "alarmsync",
		Short: "CloudWatch alarm reconciliation",
		Long: `Alarmsync - CloudWatch alarm reconciliation

Alarmsync discovers cloud resources by tag and name pattern, derives the
metric alarms each of them should have, and reconciles CloudWatch against
that: missing alarms get created, stale ones get deleted, matching ones are
left alone. The live backend is the only state; every run recomputes the
full picture.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		},
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(`Alarmsync {{.Version}} - CloudWatch alarm reconciliation
`)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "alarm-config.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}
