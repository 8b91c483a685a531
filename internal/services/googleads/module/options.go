package module

import (
	"time"

	"marketingetl/internal/adapters/ingest/googleads"
	"marketingetl/internal/core/fact"
	"marketingetl/internal/modkit"
	"marketingetl/internal/platform/config"
	perr "marketingetl/internal/platform/errors"
	"marketingetl/internal/platform/validate"
)

// Access holds what is needed to reach the Google Ads API as the manager
// account; -list-clients needs nothing else
type Access struct {
	DeveloperToken string `env:"GOOGLE_DEVELOPER_TOKEN" validate:"required"`
	ClientID       string `env:"GOOGLE_CLIENT_ID" validate:"required"`
	ClientSecret   string `env:"GOOGLE_CLIENT_SECRET" validate:"required"`
	RefreshToken   string `env:"GOOGLE_REFRESH_TOKEN" validate:"required"`
	// CustomerID is the manager (login) account
	CustomerID  string        `env:"GOOGLE_CUSTOMER_ID" validate:"required,customer_id"`
	Version     string        `env:"GOOGLE_API_VERSION" validate:"required,startswith=v"`
	BaseURL     string        `env:"GOOGLE_BASE_URL" validate:"omitempty,url"`
	TokenURL    string        `env:"GOOGLE_TOKEN_URL" validate:"omitempty,url"`
	HTTPTimeout time.Duration `env:"GOOGLE_HTTP_TIMEOUT" validate:"gt=0"`
}

// Options holds configuration settings for the googleads module
type Options struct {
	Access

	// ClientCustomerID is the account loaded; -customer sets it
	ClientCustomerID string `env:"GOOGLE_CLIENT_CUSTOMER_ID" validate:"omitempty,customer_id"`
	WriteMode        string `env:"GOOGLE_WRITE_MODE" validate:"required,write_mode"`
	Table            string `env:"GOOGLE_TABLE"`

	modkit.Window
}

func readAccess(gf config.Conf) Access {
	return Access{
		DeveloperToken: gf.MayString("DEVELOPER_TOKEN", ""),
		ClientID:       gf.MayString("CLIENT_ID", ""),
		ClientSecret:   gf.MayString("CLIENT_SECRET", ""),
		RefreshToken:   gf.MayString("REFRESH_TOKEN", ""),
		CustomerID:     gf.MayString("CUSTOMER_ID", ""),
		Version:        gf.MayString("API_VERSION", "v20"),
		BaseURL:        gf.MayString("BASE_URL", ""),
		TokenURL:       gf.MayString("TOKEN_URL", googleads.TokenURLDefault),
		HTTPTimeout:    gf.MayDuration("HTTP_TIMEOUT", modkit.DefaultHTTPTimeout),
	}
}

// AccessFromConfig reads and validates only the API access settings
func AccessFromConfig(cfg config.Conf) (Access, error) {
	a := readAccess(cfg.Prefix("GOOGLE_"))
	if err := validate.Struct(a); err != nil {
		return Access{}, err
	}
	return a, nil
}

// FromConfig reads and validates the GOOGLE_ and ETL_ window settings
func FromConfig(cfg config.Conf) (Options, error) {
	gf := cfg.Prefix("GOOGLE_")
	o := Options{
		Access:           readAccess(gf),
		ClientCustomerID: gf.MayString("CLIENT_CUSTOMER_ID", ""),
		WriteMode:        gf.MayString("WRITE_MODE", ""),
		Table:            gf.MayString("TABLE", ""),
		Window:           modkit.WindowFromConfig(cfg),
	}
	if err := validate.Struct(o); err != nil {
		return Options{}, err
	}
	return o, nil
}

// Mode is the validated write mode
func (o Options) Mode() fact.WriteMode { return fact.WriteMode(o.WriteMode) }

// Account returns the client customer to load, or a config error when none
// was chosen
func (o Options) Account() (string, error) {
	if o.ClientCustomerID == "" {
		return "", perr.WithField(perr.Configf("no client account chosen: set GOOGLE_CLIENT_CUSTOMER_ID or pass -customer (see -list-clients)"), "GOOGLE_CLIENT_CUSTOMER_ID")
	}
	return o.ClientCustomerID, nil
}
