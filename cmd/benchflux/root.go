package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"benchflux/internal/config"
	"benchflux/internal/telemetry"
)

var exit = os.Exit
var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "benchflux --json <report>",
		Short: "Upload Google Benchmark results to InfluxDB",
		Long: `benchflux reads a Google Benchmark JSON report, derives one measurement
point per benchmark entry and writes the batch to InfluxDB. A local ledger of
content hashes makes re-running on the same report a no-op.`,
		SilenceErrors: true,
		RunE:          runUpload,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./benchflux.yaml)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	viper.BindPFlag("verbose", cmd.PersistentFlags().Lookup("verbose"))

	cmd.Flags().StringVar(&jsonPath, "json", "", "Path to the Google Benchmark JSON report")
	_ = cmd.MarkFlagRequired("json")

	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command. Called by main.main().
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n=== CRITICAL ERROR: Command Execution Panic ===\n")
			fmt.Fprintf(os.Stderr, "Error: %v\n", r)
			exit(1)
		}
	}()

	cobra.OnInitialize(initConfig)

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.Load(cfgFile)

	if err := config.ValidateConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}

	telemetry.InitLogger(viper.GetBool("verbose"), viper.GetString("log_file"))
}
