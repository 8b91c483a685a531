package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketingetl/internal/bootstrap"
	"marketingetl/internal/core/pipeline"
	"marketingetl/internal/modkit"
	"marketingetl/internal/modkit/module"
	gadom "marketingetl/internal/services/googleads/domain"
	gamod "marketingetl/internal/services/googleads/module"
)

func main() {
	os.Exit(run())
}

func run() int {
	f := bootstrap.Register(flag.CommandLine, "manager (login) customer id (overrides GOOGLE_CUSTOMER_ID)")
	var (
		fCustomer = flag.String("customer", "", "client customer id to load (overrides GOOGLE_CLIENT_CUSTOMER_ID)")
		fList     = flag.Bool("list-clients", false, "print the client accounts linked to the manager and exit")
	)
	flag.Parse()
	if *fCustomer != "" {
		_ = os.Setenv("GOOGLE_CLIENT_CUSTOMER_ID", *fCustomer)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *fList {
		f.Apply("GOOGLE_CUSTOMER_ID")
		app, err := bootstrap.Logging("marketingetl-googleads", f.Env)
		defer app.Close()
		if err != nil {
			return app.Exit(err)
		}
		return listClients(ctx, app)
	}

	var (
		opts    gamod.Options
		account string
		period  pipeline.Period
	)
	app, err := bootstrap.Open(ctx, "marketingetl-googleads", f, "GOOGLE_CUSTOMER_ID", func(d modkit.Deps) (err error) {
		if opts, err = gamod.FromConfig(d.Cfg); err != nil {
			return err
		}
		if account, err = opts.Account(); err != nil {
			return err
		}
		period, err = opts.Period(time.Now())
		return err
	})
	defer app.Close()
	if err != nil {
		return app.Exit(err)
	}

	gm := gamod.New(ctx, app.Deps, opts, modkit.WithPorts(gadom.Ports{
		Loader: app.Loader,
		Ledger: app.Ledger,
	}))
	module.Register(gm.Name(), gm.Ports())

	res := module.MustPortsOf[gamod.Ports](gm).Runner.Run(ctx, pipeline.Scope{Account: account, Period: period})
	return app.Finish(res)
}

func listClients(ctx context.Context, app *bootstrap.App) int {
	access, err := gamod.AccessFromConfig(app.Deps.Cfg)
	if err != nil {
		return app.Exit(err)
	}
	clients, err := gamod.NewClients(ctx, app.Deps, access).ListClients(ctx, access.CustomerID)
	if err != nil {
		return app.Exit(err)
	}
	if len(clients) == 0 {
		app.Log.Warn().Str("manager", access.CustomerID).Msg("no client accounts linked")
	}
	for _, c := range clients {
		fmt.Printf("%s\t%s\n", c.ID, c.Name)
	}
	return 0
}
