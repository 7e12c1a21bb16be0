package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/sweepd/sweepd/pkg/wallet"
)

var address = cli.Command{
	Name:      "address",
	Usage:     "derive the address of a private key",
	ArgsUsage: "<private key hex>",
	Action:    addressAction,
}

func addressAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("private key is missing")
	}

	key, err := hex.DecodeString(strings.TrimPrefix(ctx.Args().First(), "0x"))
	if err != nil {
		return fmt.Errorf("invalid private key: %w", err)
	}

	w, err := wallet.NewWalletFromKey(wallet.NewWalletFromKeyOpts{
		PrivateKey: key,
	})
	if err != nil {
		return err
	}

	return printJSON(ctx, walletInfo(w))
}
