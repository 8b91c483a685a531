package modkit

import (
	"time"

	"marketingetl/internal/core/pipeline"
	"marketingetl/internal/platform/config"
)

// Window is the reporting period every pipeline module reads from ETL_START
// and ETL_END; blank bounds take pipeline.DefaultPeriod
type Window struct {
	Start string `env:"ETL_START" validate:"omitempty,ymd"`
	End   string `env:"ETL_END" validate:"omitempty,ymd"`
}

// WindowFromConfig reads the ETL_ window keys
func WindowFromConfig(cfg config.Conf) Window {
	ef := cfg.Prefix("ETL_")
	return Window{
		Start: ef.MayString("START", ""),
		End:   ef.MayString("END", ""),
	}
}

// Period resolves the window against now
func (w Window) Period(now time.Time) (pipeline.Period, error) {
	return pipeline.ParsePeriod(w.Start, w.End, now)
}
