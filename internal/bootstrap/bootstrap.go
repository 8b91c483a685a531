// Package bootstrap wires what every pipeline binary shares: flags that
// override env, the .env file, the logger, the warehouse store, the loader
// and the run ledger
package bootstrap

import (
	"context"
	"flag"
	"io"
	"os"
	"strconv"

	"marketingetl/internal/core/pipeline"
	"marketingetl/internal/core/version"
	"marketingetl/internal/modkit"
	"marketingetl/internal/modkit/module"
	"marketingetl/internal/modkit/repokit"
	"marketingetl/internal/platform/config"
	perr "marketingetl/internal/platform/errors"
	"marketingetl/internal/platform/logger"
	"marketingetl/internal/platform/store"
	pstrings "marketingetl/internal/platform/strings"
	runsmod "marketingetl/internal/services/runs/module"
	whmod "marketingetl/internal/services/warehouse/module"
)

// Flags are the overrides every binary accepts
type Flags struct {
	Start   string
	End     string
	Account string
	Batch   int
	Env     string
}

// Register binds the shared flags on fs; account names what -account means
// for this binary
func Register(fs *flag.FlagSet, account string) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Start, "start", "", "first day YYYY-MM-DD (default: 7 days before yesterday)")
	fs.StringVar(&f.End, "end", "", "last day YYYY-MM-DD inclusive (default: yesterday UTC)")
	fs.StringVar(&f.Account, "account", "", account)
	fs.IntVar(&f.Batch, "batch", 0, "rows per warehouse batch (default 100)")
	fs.StringVar(&f.Env, "env", ".env", "dotenv file; variables already set win")
	return f
}

func mustSetEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}

// Apply exports the flags into the env so FromConfig sees them; accountKey
// is the env key -account overrides
func (f *Flags) Apply(accountKey string) {
	mustSetEnv("ETL_START", f.Start)
	mustSetEnv("ETL_END", f.End)
	if accountKey != "" {
		mustSetEnv(accountKey, f.Account)
	}
	if f.Batch != 0 {
		mustSetEnv("ETL_BATCH_SIZE", strconv.Itoa(f.Batch))
	}
}

// App is the shared wiring of one binary
type App struct {
	Log    logger.Logger
	Deps   modkit.Deps
	Loader pipeline.Loader
	// Ledger is nil when ETL_RUN_LEDGER is off
	Ledger pipeline.Ledger

	closers []io.Closer
}

// Logging loads the dotenv file and builds the logger; the returned App has
// no store yet
func Logging(service, envFile string) (*App, error) {
	n, envErr := config.LoadDotEnv(envFile)

	opt := logger.FromEnv()
	opt.Service = pstrings.FirstNonEmpty(opt.Service, service)
	log, closer, err := logger.New(opt)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeConfig, "open log file")
	}
	a := &App{
		Log:     log,
		closers: []io.Closer{closer},
		Deps: modkit.Deps{
			Log:   log,
			Cfg:   config.New(),
			Build: version.Info(service),
		},
	}
	if envErr != nil {
		return a, perr.Wrapf(envErr, perr.ErrorCodeConfig, "read %s", envFile)
	}
	a.Log.Info().Object("build", a.Deps.Build).Int("dotenv_vars", n).Msg("starting")
	return a, nil
}

// Open loads config, runs configure and only then connects the warehouse and
// builds the loader and ledger; a configure error never touches the warehouse
func Open(ctx context.Context, service string, f *Flags, accountKey string, configure func(modkit.Deps) error) (*App, error) {
	f.Apply(accountKey)
	a, err := Logging(service, f.Env)
	if err != nil {
		return a, err
	}
	if configure != nil {
		if err := configure(a.Deps); err != nil {
			return a, err
		}
	}
	if err := a.Connect(ctx); err != nil {
		return a, err
	}
	return a, nil
}

// Connect opens the warehouse and registers the warehouse and runs modules
func (a *App) Connect(ctx context.Context) error {
	wo, err := whmod.FromConfig(a.Deps.Cfg)
	if err != nil {
		return err
	}
	st, err := store.Open(ctx, wo.StoreConfig(a.Deps.Build.Service, a.Deps.Build.Version), store.WithLogger(a.Log))
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeLoadFailure, "open warehouse")
	}
	a.closers = append(a.closers, st)
	if err := repokit.Guard(ctx, st); err != nil {
		return err
	}
	a.Deps.Store = st

	wh := whmod.New(a.Deps, wo)
	runs := runsmod.New(a.Deps)
	module.Register(wh.Name(), wh.Ports())
	module.Register(runs.Name(), runs.Ports())

	a.Loader = module.MustPortsOf[whmod.Ports](wh).Loader
	a.Ledger = module.MustPortsOf[runsmod.Ports](runs).Ledger
	return nil
}

// Close releases the store and the log file, in reverse order
func (a *App) Close() {
	if a == nil {
		return
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.Log.Error().Err(err).Msg("close failed")
		}
	}
	a.closers = nil
}

// Exit logs err, when set, and returns the process status it maps to
func (a *App) Exit(err error) int {
	if err == nil {
		return perr.ExitOK
	}
	code := perr.ExitCode(err)
	if a != nil {
		a.Log.Error().Err(err).Int("exit_code", code).Msg("aborted")
	} else {
		_, _ = io.WriteString(os.Stderr, err.Error()+"\n")
	}
	return code
}

// Finish logs the outcome of results and returns the worst exit status
func (a *App) Finish(results ...pipeline.Result) int {
	if len(results) == 0 {
		return perr.ExitOK
	}
	w := pipeline.Worst(results...)
	code := w.ExitCode()
	evt := a.Log.Info()
	if code != perr.ExitOK {
		evt = a.Log.Error()
	}
	evt.Strs("modules", module.Names()).Int("pipelines", len(results)).Str("worst", string(w.Status)).Int("exit_code", code).Msg("done")
	return code
}
