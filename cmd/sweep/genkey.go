package main

import (
	"github.com/urfave/cli/v2"

	"github.com/sweepd/sweepd/pkg/wallet"
)

var genkey = cli.Command{
	Name:   "genkey",
	Usage:  "generate a random key pair and print its address",
	Action: genKeyAction,
}

func genKeyAction(ctx *cli.Context) error {
	w, err := wallet.NewWallet(wallet.NewWalletOpts{
		Entropy: wallet.NewEntropySource(nil, wallet.NanoTime),
	})
	if err != nil {
		return err
	}

	return printJSON(ctx, walletInfo(w))
}

func walletInfo(w *wallet.Wallet) map[string]string {
	return map[string]string{
		"address":     w.Address().Hex(),
		"public_key":  w.PublicKeyHex(),
		"private_key": w.PrivateKeyHex(),
	}
}
