package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/sweepd/sweepd/internal/infrastructure/ledger/ethereum"
)

const (
	endpointFlag      = "endpoint"
	projectIDFlag     = "project-id"
	projectSecretFlag = "project-secret"

	defaultEndpoint = "wss://mainnet.infura.io/ws/v3"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Version = "0.0.1"
	app.Name = "sweep"
	app.Usage = "Command line interface for sweepd operators"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    endpointFlag,
			Usage:   "websocket or http url of the Ethereum node",
			EnvVars: []string{"SWEEPD_NODE_ENDPOINT"},
			Value:   defaultEndpoint,
		},
		&cli.StringFlag{
			Name:    projectIDFlag,
			Usage:   "node provider project id appended to the endpoint",
			EnvVars: []string{"SWEEPD_PROJECT_ID"},
		},
		&cli.StringFlag{
			Name:    projectSecretFlag,
			Usage:   "node provider project secret",
			EnvVars: []string{"SWEEPD_PROJECT_SECRET"},
		},
	}
	app.Commands = append(
		app.Commands,
		&genkey,
		&address,
		&balance,
		&probe,
	)
	return app
}

func dial(ctx *cli.Context) (*ethereum.Client, error) {
	return ethereum.Dial(context.Background(), ethereum.Config{
		Endpoint:      ctx.String(endpointFlag),
		ProjectID:     ctx.String(projectIDFlag),
		ProjectSecret: ctx.String(projectSecretFlag),
	})
}

func printJSON(ctx *cli.Context, resp interface{}) error {
	buf, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		return fmt.Errorf("unable to encode response: %w", err)
	}
	fmt.Fprintln(ctx.App.Writer, string(buf))
	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[sweep] %v\n", err)
	os.Exit(1)
}
