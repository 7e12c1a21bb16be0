package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sweepd/sweepd/internal/core/domain"
	"github.com/sweepd/sweepd/internal/core/ports"
)

const (
	// ModeConcurrent runs many workers in a tight loop.
	ModeConcurrent = "concurrent"
	// ModeSequential runs one worker that waits for a cooldown between the
	// start of two cycles.
	ModeSequential = "sequential"

	// DefaultPause is the pause between two cycles of a worker in concurrent
	// mode.
	DefaultPause = 5 * time.Millisecond
	// DefaultCooldown is the minimum interval between the start of two cycles
	// in sequential mode.
	DefaultCooldown = 1730 * time.Millisecond
)

var (
	// ErrNullProber ...
	ErrNullProber = errors.New("prober must not be null")
	// ErrNullLedgerProvider ...
	ErrNullLedgerProvider = errors.New("ledger provider must not be null")
	// ErrUnknownMode ...
	ErrUnknownMode = errors.New("mode must be either concurrent or sequential")
	// ErrPoolAlreadyStarted ...
	ErrPoolAlreadyStarted = errors.New("worker pool already started")
)

// Prober runs one probe cycle against a ledger.
type Prober interface {
	Run(ctx context.Context, l ports.Ledger) domain.SweepOutcome
}

// Notifier is told when a worker starts looping.
type Notifier interface {
	WorkerStarted(worker int)
}

// Opts is the struct given to the NewPool method
type Opts struct {
	Prober  Prober
	Ledgers ports.LedgerProvider
	Mode    string
	// Workers defaults to the number of CPUs in concurrent mode, it's
	// always 1 in sequential mode.
	Workers  int
	Pause    time.Duration
	Cooldown time.Duration
	// MaxCycles is the number of cycles after which a worker stops, 0 means
	// no limit.
	MaxCycles int
	Notifier  Notifier
}

func (o *Opts) validate() error {
	if o.Prober == nil {
		return ErrNullProber
	}
	if o.Ledgers == nil {
		return ErrNullLedgerProvider
	}
	if o.Mode == "" {
		o.Mode = ModeConcurrent
	}
	if o.Mode != ModeConcurrent && o.Mode != ModeSequential {
		return ErrUnknownMode
	}
	if o.Workers < 0 || o.MaxCycles < 0 || o.Pause < 0 || o.Cooldown < 0 {
		return fmt.Errorf(
			"workers, max cycles, pause and cooldown must not be negative",
		)
	}

	if o.Mode == ModeSequential {
		o.Workers = 1
		if o.Cooldown == 0 {
			o.Cooldown = DefaultCooldown
		}
		return nil
	}
	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Pause == 0 {
		o.Pause = DefaultPause
	}
	return nil
}

// Pool runs the probe cycles of its workers until the context given to Start
// is canceled. Stopping a pool only stops scheduling new cycles, the process
// is expected to exit without waiting for the in-flight ones.
type Pool struct {
	opts Opts

	lock    sync.Mutex
	started bool
	wg      sync.WaitGroup
}

// NewPool returns a new worker pool.
func NewPool(opts Opts) (*Pool, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Pool{opts: opts}, nil
}

// Workers returns the number of workers of the pool.
func (p *Pool) Workers() int {
	return p.opts.Workers
}

// Mode returns the operating mode of the pool.
func (p *Pool) Mode() string {
	return p.opts.Mode
}

// Start obtains a ledger for every worker then starts them in background.
// If any ledger can't be obtained no worker is started and the error is
// returned.
func (p *Pool) Start(ctx context.Context) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.started {
		return ErrPoolAlreadyStarted
	}

	ledgers := make([]ports.Ledger, p.opts.Workers)
	g, gctx := errgroup.WithContext(ctx)
	for i := range ledgers {
		i := i
		g.Go(func() error {
			l, err := p.opts.Ledgers.Ledger(gctx, i)
			if err != nil {
				return fmt.Errorf("worker %d: %w", i, err)
			}
			ledgers[i] = l
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	p.started = true

	loop := p.concurrentLoop
	if p.opts.Mode == ModeSequential {
		loop = p.sequentialLoop
	}

	for i, l := range ledgers {
		p.wg.Add(1)
		go func(i int, l ports.Ledger) {
			defer p.wg.Done()

			if p.opts.Notifier != nil {
				p.opts.Notifier.WorkerStarted(i)
			}
			log.WithField("worker", i).Debug("worker started")

			loop(ctx, i, l)

			log.WithField("worker", i).Debug("worker stopped")
		}(i, l)
	}
	return nil
}

// Wait blocks until every worker returned. Workers return once the context
// given to Start is canceled or they completed MaxCycles cycles.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) concurrentLoop(ctx context.Context, worker int, l ports.Ledger) {
	for cycles := 0; p.keepGoing(ctx, cycles); cycles++ {
		p.runCycle(ctx, worker, l)

		if !sleep(ctx, p.opts.Pause) {
			return
		}
	}
}

func (p *Pool) sequentialLoop(ctx context.Context, worker int, l ports.Ledger) {
	for cycles := 0; p.keepGoing(ctx, cycles); cycles++ {
		start := time.Now()
		p.runCycle(ctx, worker, l)

		if cycles+1 == p.opts.MaxCycles {
			return
		}
		if !sleep(ctx, time.Until(start.Add(p.opts.Cooldown))) {
			return
		}
	}
}

func (p *Pool) runCycle(ctx context.Context, worker int, l ports.Ledger) {
	outcome := p.opts.Prober.Run(ctx, l)
	if outcome.Status == domain.StatusFailed {
		log.WithFields(log.Fields{
			"worker": worker,
			"kind":   domain.KindOf(outcome.Err).String(),
		}).WithError(outcome.Err).Debug("probe cycle failed")
	}
}

func (p *Pool) keepGoing(ctx context.Context, cycles int) bool {
	if ctx.Err() != nil {
		return false
	}
	return p.opts.MaxCycles == 0 || cycles < p.opts.MaxCycles
}

// sleep returns false if the context is canceled before d elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
