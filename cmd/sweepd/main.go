package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sweepd/sweepd/internal/config"
	"github.com/sweepd/sweepd/internal/core/application/prober"
	"github.com/sweepd/sweepd/internal/core/application/worker"
	"github.com/sweepd/sweepd/internal/core/domain"
	"github.com/sweepd/sweepd/internal/infrastructure/ledger"
	"github.com/sweepd/sweepd/internal/infrastructure/ledger/ethereum"
	"github.com/sweepd/sweepd/internal/infrastructure/metrics"
	"github.com/sweepd/sweepd/internal/interfaces/console"
	"github.com/sweepd/sweepd/pkg/stats"
	"github.com/sweepd/sweepd/pkg/wallet"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	app = &cobra.Command{
		Use:   "sweepd",
		Short: "random wallet sweeper daemon",
		Long: "sweepd generates random Ethereum wallets and sweeps the balance " +
			"of any funded one to the configured destination address. " +
			"It's configured with SWEEPD_* environment variables.",
		Version:       formatVersion(),
		RunE:          action,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func main() {
	if err := app.Execute(); err != nil {
		log.Fatal(err)
	}
}

func action(cmd *cobra.Command, _ []string) error {
	if err := config.InitConfig(); err != nil {
		return err
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	runID := uuid.New().String()
	logger := log.WithField("run_id", runID)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var clock wallet.Clock
	if config.GetBool(config.EnableTimingEntropyKey) {
		clock = wallet.NanoTime
	}

	counter := &domain.SweepCounter{}
	observer := metrics.NewObserver(nil)
	display := console.NewDisplay(
		os.Stdout, counter, config.GetBool(config.EnableLogKey),
	)

	p, err := prober.New(prober.Opts{
		Entropy:     wallet.NewEntropySource(nil, clock),
		Counter:     counter,
		Destination: config.GetDestination(),
		Log:         config.GetBool(config.EnableLogKey),
		Observer:    prober.MultiObserver(observer, display),
	})
	if err != nil {
		return err
	}

	rps := config.GetInt(config.RequestsPerSecondKey)
	ledgers, err := ledger.NewPool(ledger.NewPoolOpts{
		Dial: ledger.EthereumDialer(ethereum.Config{
			Endpoint:       config.GetString(config.NodeEndpointKey),
			ProjectID:      config.GetString(config.ProjectIDKey),
			ProjectSecret:  config.GetString(config.ProjectSecretKey),
			RequestTimeout: config.GetSeconds(config.RequestTimeoutKey),
		}),
		Policy:             config.GetString(config.ConnectionPolicyKey),
		Limiter:            ledger.NewLimiter(rps),
		WithCircuitBreaker: true,
	})
	if err != nil {
		return err
	}
	defer ledgers.Close()

	workers, err := worker.NewPool(worker.Opts{
		Prober:   p,
		Ledgers:  ledgers,
		Mode:     config.GetString(config.ModeKey),
		Workers:  config.GetInt(config.NumWorkersKey),
		Pause:    config.GetMilliseconds(config.CyclePauseKey),
		Cooldown: config.GetMilliseconds(config.CooldownKey),
		Notifier: display,
	})
	if err != nil {
		return err
	}

	if interval := config.GetSeconds(config.StatsIntervalKey); interval > 0 {
		stats.EnableStatistics(
			ctx, interval, observer, config.GetBool(config.EnableProfilerKey),
		)
	}

	if addr := config.GetString(config.MetricsAddrKey); addr != "" {
		go func() {
			if err := metrics.Serve(ctx, addr, nil); err != nil {
				logger.WithError(err).Warn("metrics server stopped")
			}
		}()
	}

	logger.WithFields(log.Fields{
		"mode":        workers.Mode(),
		"workers":     workers.Workers(),
		"destination": config.GetDestination().Hex(),
	}).Info("starting daemon")

	if err := workers.Start(ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	display.Generating(workers.Workers())

	waitForStop()

	// In-flight cycles are not awaited, a broadcast that was just sent may
	// never be reported.
	cancel()
	logger.WithField("swept", counter.Value()).Info("shutdown")
	return nil
}

// waitForStop blocks until the operator presses enter or the process receives
// SIGINT or SIGTERM.
func waitForStop() {
	stop := make(chan struct{}, 2)

	go func() {
		if err := console.WaitForKeypress(os.Stdin); err != nil {
			log.WithError(err).Debug("stopped reading from stdin")
			return
		}
		stop <- struct{}{}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
	case <-stop:
	}
}

func formatVersion() string {
	return fmt.Sprintf(
		"Version: %s\nCommit: %s\nDate: %s",
		version, commit, date,
	)
}
