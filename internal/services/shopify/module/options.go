package module

import (
	"path/filepath"

	"marketingetl/internal/adapters/ingest/shopifycsv"
	"marketingetl/internal/core/fact"
	"marketingetl/internal/modkit"
	"marketingetl/internal/platform/config"
	"marketingetl/internal/platform/validate"
	"marketingetl/internal/services/shopify/service"
)

// Options holds configuration settings for the shopify module
type Options struct {
	StagingDir    string `env:"ETL_STAGING_DIR"`
	Store         string `env:"SHOPIFY_STORE" validate:"required"`
	SalesFile     string `env:"SHOPIFY_SALES_FILE" validate:"required"`
	LocationsFile string `env:"SHOPIFY_SESSIONS_LOCATION_FILE" validate:"required"`
	PagesFile     string `env:"SHOPIFY_PAGE_SESSIONS_FILE" validate:"required"`
	SalesMode     string `env:"SHOPIFY_SALES_WRITE_MODE" validate:"required,write_mode"`
	LocationsMode string `env:"SHOPIFY_SESSIONS_LOCATION_WRITE_MODE" validate:"required,write_mode"`
	PagesMode     string `env:"SHOPIFY_PAGE_SESSIONS_WRITE_MODE" validate:"required,write_mode"`

	modkit.Window
}

// FromConfig reads and validates the SHOPIFY_ and ETL_ settings; relative
// file names resolve against ETL_STAGING_DIR
func FromConfig(cfg config.Conf) (Options, error) {
	sf := cfg.Prefix("SHOPIFY_")
	dir := cfg.Prefix("ETL_").MayString("STAGING_DIR", ".")
	o := Options{
		StagingDir:    dir,
		Store:         sf.MayString("STORE", "shopify"),
		SalesFile:     staged(dir, sf.MayString("SALES_FILE", shopifycsv.Sales.DefaultFile)),
		LocationsFile: staged(dir, sf.MayString("SESSIONS_LOCATION_FILE", shopifycsv.SessionsByLocation.DefaultFile)),
		PagesFile:     staged(dir, sf.MayString("PAGE_SESSIONS_FILE", shopifycsv.PageSessionsByDay.DefaultFile)),
		SalesMode:     sf.MayString("SALES_WRITE_MODE", ""),
		LocationsMode: sf.MayString("SESSIONS_LOCATION_WRITE_MODE", ""),
		PagesMode:     sf.MayString("PAGE_SESSIONS_WRITE_MODE", ""),
		Window:        modkit.WindowFromConfig(cfg),
	}
	if err := validate.Struct(o); err != nil {
		return Options{}, err
	}
	return o, nil
}

func staged(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// Files returns the export paths
func (o Options) Files() service.Files {
	return service.Files{Sales: o.SalesFile, Locations: o.LocationsFile, Pages: o.PagesFile}
}

// Modes returns the validated write modes
func (o Options) Modes() service.Modes {
	return service.Modes{
		Sales:     fact.WriteMode(o.SalesMode),
		Locations: fact.WriteMode(o.LocationsMode),
		Pages:     fact.WriteMode(o.PagesMode),
	}
}
