package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load initializes the configuration from file and environment variables.
func Load(cfgFile string) {
	// explicit .env loading; a missing .env is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("benchflux")
	}

	viper.SetEnvPrefix("BENCHFLUX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	// Set defaults
	viper.SetDefault("ledger_path", filepath.Join(home, ".benchflux", "uploaded_runs"))
	viper.SetDefault("history_path", filepath.Join(home, ".benchflux", "history.db"))
	viper.SetDefault("pushgateway_url", "")
	viper.SetDefault("pushgateway_job", "benchflux")
	viper.SetDefault("verbose", false)
	viper.SetDefault("log_file", "")

	// Notification Defaults
	slackEnabled := false
	if os.Getenv("SLACK_BOT_USER_TOKEN") != "" {
		slackEnabled = true
	}
	viper.SetDefault("notifications.slack.enabled", slackEnabled)
	viper.SetDefault("notifications.slack.channel", "#benchmarks")

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
