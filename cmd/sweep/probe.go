package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/sweepd/sweepd/internal/core/application/prober"
	"github.com/sweepd/sweepd/internal/core/application/worker"
	"github.com/sweepd/sweepd/internal/core/domain"
	"github.com/sweepd/sweepd/internal/core/ports"
	"github.com/sweepd/sweepd/internal/infrastructure/ledger"
	"github.com/sweepd/sweepd/internal/interfaces/console"
	"github.com/sweepd/sweepd/pkg/wallet"
)

const (
	destinationFlag = "destination"
	cyclesFlag      = "cycles"
	workersFlag     = "workers"
	verboseFlag     = "verbose"
)

var probe = cli.Command{
	Name:  "probe",
	Usage: "run a fixed number of probe cycles and print their outcome",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     destinationFlag,
			Usage:    "the address receiving swept balances",
			EnvVars:  []string{"SWEEPD_DESTINATION_ADDRESS"},
			Required: true,
		},
		&cli.IntFlag{
			Name:  cyclesFlag,
			Usage: "the number of cycles run by every worker",
			Value: 1,
		},
		&cli.IntFlag{
			Name:  workersFlag,
			Usage: "the number of workers sharing the node connection",
			Value: 1,
		},
		&cli.BoolFlag{
			Name:  verboseFlag,
			Usage: "print the keys of every probed wallet",
		},
	},
	Action: probeAction,
}

func probeAction(ctx *cli.Context) error {
	destination, err := wallet.ParseAddress(ctx.String(destinationFlag))
	if err != nil {
		return err
	}
	cycles := ctx.Int(cyclesFlag)
	if cycles <= 0 {
		return fmt.Errorf("%s must be greater than zero", cyclesFlag)
	}

	ledgers, err := ledger.NewPool(ledger.NewPoolOpts{
		Dial: func(context.Context) (ports.Ledger, error) {
			return dial(ctx)
		},
		Policy: ledger.PolicyShared,
	})
	if err != nil {
		return err
	}
	defer ledgers.Close()

	counter := &domain.SweepCounter{}
	display := console.NewDisplay(ctx.App.Writer, counter, true)

	p, err := prober.New(prober.Opts{
		Entropy:     wallet.NewEntropySource(nil, wallet.NanoTime),
		Counter:     counter,
		Destination: destination,
		Log:         ctx.Bool(verboseFlag),
		Observer:    display,
	})
	if err != nil {
		return err
	}

	pool, err := worker.NewPool(worker.Opts{
		Prober:    p,
		Ledgers:   ledgers,
		Mode:      worker.ModeConcurrent,
		Workers:   ctx.Int(workersFlag),
		MaxCycles: cycles,
	})
	if err != nil {
		return err
	}

	if err := pool.Start(context.Background()); err != nil {
		return err
	}
	pool.Wait()

	fmt.Fprintf(ctx.App.Writer, "Swept wallets: %d\n", counter.Value())
	return nil
}
