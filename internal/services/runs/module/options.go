package module

import "marketingetl/internal/platform/config"

// Options holds configuration settings for the runs module
type Options struct {
	Enabled bool
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	return Options{
		Enabled: cfg.Prefix("ETL_").MayBool("RUN_LEDGER", true),
	}
}
