package config

import (
	"fmt"
	"net/url"

	"github.com/spf13/viper"
)

// ValidateConfig checks configuration values before any work starts.
func ValidateConfig() error {
	if viper.GetString("ledger_path") == "" {
		return fmt.Errorf("ledger_path must not be empty")
	}
	if viper.GetString("history_path") == "" {
		return fmt.Errorf("history_path must not be empty")
	}

	if gw := viper.GetString("pushgateway_url"); gw != "" {
		u, err := url.Parse(gw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("pushgateway_url %q is not a valid URL", gw)
		}
	}
	return nil
}
