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
	metadom "marketingetl/internal/services/metaads/domain"
	metamod "marketingetl/internal/services/metaads/module"
)

func main() {
	os.Exit(run())
}

func run() int {
	f := bootstrap.Register(flag.CommandLine, "Meta ad account id, act_<digits> (overrides META_AD_ACCOUNT_ID)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		opts   metamod.Options
		period pipeline.Period
	)
	app, err := bootstrap.Open(ctx, "marketingetl-metaads", f, "META_AD_ACCOUNT_ID", func(d modkit.Deps) (err error) {
		if opts, err = metamod.FromConfig(d.Cfg); err != nil {
			return err
		}
		period, err = opts.Period(time.Now())
		return err
	})
	defer app.Close()
	if err != nil {
		return app.Exit(err)
	}

	mm := metamod.New(app.Deps, opts, modkit.WithPorts(metadom.Ports{
		Loader: app.Loader,
		Ledger: app.Ledger,
	}))
	module.Register(mm.Name(), mm.Ports())

	res := module.MustPortsOf[metamod.Ports](mm).Runner.Run(ctx, pipeline.Scope{Account: opts.Account, Period: period})
	return app.Finish(res)
}
