package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/sweepd/sweepd/pkg/mathutil"
	"github.com/sweepd/sweepd/pkg/wallet"
)

var balance = cli.Command{
	Name:      "balance",
	Usage:     "get the balance of an address",
	ArgsUsage: "<address>",
	Action:    balanceAction,
}

func balanceAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("address is missing")
	}

	addr, err := wallet.ParseAddress(ctx.Args().First())
	if err != nil {
		return err
	}

	client, err := dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	wei, err := client.Balance(context.Background(), addr)
	if err != nil {
		return err
	}

	return printJSON(ctx, map[string]string{
		"address": addr.Hex(),
		"wei":     wei.Dec(),
		"ether":   mathutil.FormatEther(wei),
	})
}
