package validate

import (
	"testing"

	perr "marketingetl/internal/platform/errors"
	kit "marketingetl/internal/platform/testkit"
)

type opts struct {
	Account   string `env:"META_AD_ACCOUNT_ID" validate:"required,meta_account"`
	Customer  string `env:"GOOGLE_CLIENT_CUSTOMER_ID" validate:"omitempty,customer_id"`
	Mode      string `env:"META_WRITE_MODE" validate:"write_mode"`
	Start     string `env:"ETL_START" validate:"omitempty,ymd"`
	BatchSize int    `env:"ETL_BATCH_SIZE" validate:"min=1,max=2000"`
	Internal  string `validate:"omitempty,min=2"`
}

func valid() opts {
	return opts{Account: "act_123", Customer: "123-456-7890", Mode: "upsert", Start: "2025-02-22", BatchSize: 100}
}

func TestStruct_OK(t *testing.T) {
	if err := Struct(valid()); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	o := valid()
	o.Customer = "1234567890"
	o.Start = ""
	if err := Struct(o); err != nil {
		t.Fatalf("optional fields: %v", err)
	}
}

func TestStruct_Messages(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*opts)
		field  string
		msg    string
	}{
		{"missing account", func(o *opts) { o.Account = "" }, "META_AD_ACCOUNT_ID", "META_AD_ACCOUNT_ID is a required field"},
		{"account shape", func(o *opts) { o.Account = "123" }, "META_AD_ACCOUNT_ID", "META_AD_ACCOUNT_ID must look like act_<digits>"},
		{"customer", func(o *opts) { o.Customer = "12-34" }, "GOOGLE_CLIENT_CUSTOMER_ID", "must be a 10 digit customer id"},
		{"mode", func(o *opts) { o.Mode = "merge" }, "META_WRITE_MODE", "META_WRITE_MODE must be upsert or insert"},
		{"date", func(o *opts) { o.Start = "02/22/2025" }, "ETL_START", "ETL_START must be a YYYY-MM-DD date"},
		{"batch min", func(o *opts) { o.BatchSize = 0 }, "ETL_BATCH_SIZE", "ETL_BATCH_SIZE must be at least 1"},
		{"batch max", func(o *opts) { o.BatchSize = 5000 }, "ETL_BATCH_SIZE", "ETL_BATCH_SIZE must be at most 2000"},
		{"untagged field", func(o *opts) { o.Internal = "x" }, "Internal", "Internal must be at least 2"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			o := valid()
			c.mutate(&o)
			err := Struct(o)
			kit.MustCode(t, err, perr.ErrorCodeConfig)
			e, _ := perr.As(err)
			if e.Field() != c.field {
				t.Fatalf("field = %q, want %q", e.Field(), c.field)
			}
			kit.MustContain(t, err.Error(), c.msg)
		})
	}
}

func TestStruct_JoinsAllFailures(t *testing.T) {
	err := Struct(opts{})
	kit.MustCode(t, err, perr.ErrorCodeConfig)
	kit.MustContain(t, err.Error(), "META_AD_ACCOUNT_ID")
	kit.MustContain(t, err.Error(), "; META_WRITE_MODE")
}

func TestStruct_NotAStruct(t *testing.T) {
	kit.MustCode(t, Struct(42), perr.ErrorCodeUnknown)
}

func TestVar(t *testing.T) {
	if err := Var("insert", "write_mode"); err != nil {
		t.Fatalf("Var: %v", err)
	}
	kit.MustCode(t, Var("append", "write_mode"), perr.ErrorCodeConfig)
}
