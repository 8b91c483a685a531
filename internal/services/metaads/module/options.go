package module

import (
	"time"

	"marketingetl/internal/core/fact"
	"marketingetl/internal/modkit"
	"marketingetl/internal/platform/config"
	"marketingetl/internal/platform/validate"
)

// Options holds configuration settings for the metaads module
type Options struct {
	Token       string        `env:"META_ACCESS_TOKEN" validate:"required"`
	Account     string        `env:"META_AD_ACCOUNT_ID" validate:"required,meta_account"`
	Version     string        `env:"META_API_VERSION" validate:"required,startswith=v"`
	BaseURL     string        `env:"META_BASE_URL" validate:"omitempty,url"`
	PageLimit   int           `env:"META_PAGE_LIMIT" validate:"min=0,max=5000"`
	HTTPTimeout time.Duration `env:"META_HTTP_TIMEOUT" validate:"gt=0"`
	WriteMode   string        `env:"META_WRITE_MODE" validate:"required,write_mode"`
	Table       string        `env:"META_TABLE"`

	modkit.Window
}

// FromConfig reads and validates the META_ and ETL_ window settings
func FromConfig(cfg config.Conf) (Options, error) {
	mf := cfg.Prefix("META_")
	o := Options{
		Token:       mf.MayString("ACCESS_TOKEN", ""),
		Account:     mf.MayString("AD_ACCOUNT_ID", ""),
		Version:     mf.MayString("API_VERSION", "v22.0"),
		BaseURL:     mf.MayString("BASE_URL", ""),
		PageLimit:   mf.MayInt("PAGE_LIMIT", 0),
		HTTPTimeout: mf.MayDuration("HTTP_TIMEOUT", modkit.DefaultHTTPTimeout),
		WriteMode:   mf.MayString("WRITE_MODE", ""),
		Table:       mf.MayString("TABLE", ""),
		Window:      modkit.WindowFromConfig(cfg),
	}
	if err := validate.Struct(o); err != nil {
		return Options{}, err
	}
	return o, nil
}

// Mode is the validated write mode
func (o Options) Mode() fact.WriteMode { return fact.WriteMode(o.WriteMode) }
