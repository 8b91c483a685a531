package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketingetl/internal/bootstrap"
	"marketingetl/internal/core/pipeline"
	"marketingetl/internal/modkit"
	"marketingetl/internal/modkit/module"
	shopdom "marketingetl/internal/services/shopify/domain"
	shopmod "marketingetl/internal/services/shopify/module"
)

func main() {
	os.Exit(run())
}

func run() int {
	f := bootstrap.Register(flag.CommandLine, "store label stamped on logs and ledger rows (overrides SHOPIFY_STORE)")
	fDir := flag.String("dir", "", "staging directory holding the exports (overrides ETL_STAGING_DIR)")
	flag.Parse()
	if *fDir != "" {
		_ = os.Setenv("ETL_STAGING_DIR", *fDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		opts   shopmod.Options
		period pipeline.Period
	)
	app, err := bootstrap.Open(ctx, "marketingetl-shopify", f, "SHOPIFY_STORE", func(d modkit.Deps) (err error) {
		if opts, err = shopmod.FromConfig(d.Cfg); err != nil {
			return err
		}
		period, err = opts.Period(time.Now())
		return err
	})
	defer app.Close()
	if err != nil {
		return app.Exit(err)
	}

	sm := shopmod.New(app.Deps, opts, modkit.WithPorts(shopdom.Ports{
		Loader: app.Loader,
		Ledger: app.Ledger,
	}))
	module.Register(sm.Name(), sm.Ports())

	results := module.MustPortsOf[shopmod.Ports](sm).Runner.RunAll(ctx, pipeline.Scope{Account: opts.Store, Period: period})
	return app.Finish(results...)
}
