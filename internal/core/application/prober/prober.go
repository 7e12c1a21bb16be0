package prober

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	log "github.com/sirupsen/logrus"

	"github.com/sweepd/sweepd/internal/core/domain"
	"github.com/sweepd/sweepd/internal/core/ports"
	"github.com/sweepd/sweepd/pkg/mathutil"
	"github.com/sweepd/sweepd/pkg/wallet"
)

var (
	// ErrNullCounter ...
	ErrNullCounter = errors.New("sweep counter must not be null")
	// ErrNullDestination ...
	ErrNullDestination = errors.New("destination address must not be zero")
	// ErrNullLedger ...
	ErrNullLedger = errors.New("ledger must not be null")
	// ErrCyclePanic is wrapped by the error of a cycle that panicked.
	ErrCyclePanic = errors.New("probe cycle panicked")
)

// Observer is notified of the outcome of every cycle. Implementations must not
// block.
type Observer interface {
	Observe(outcome domain.SweepOutcome)
}

// Opts is the struct given to the New method
type Opts struct {
	Entropy     wallet.EntropySource
	Counter     *domain.SweepCounter
	Destination common.Address
	// Log enables the diagnostic record emitted at the end of every cycle.
	Log      bool
	Observer Observer
}

func (o Opts) validate() error {
	if o.Entropy == nil {
		return wallet.ErrNullEntropySource
	}
	if o.Counter == nil {
		return ErrNullCounter
	}
	if o.Destination == (common.Address{}) {
		return ErrNullDestination
	}
	return nil
}

// Prober runs probe cycles: it generates a fresh wallet, looks up its balance
// and, if the balance covers the network fee, sweeps it to the destination.
// A Prober is safe for concurrent use.
type Prober struct {
	entropy     wallet.EntropySource
	counter     *domain.SweepCounter
	destination common.Address
	log         bool
	observer    Observer
}

// New returns a new Prober.
func New(opts Opts) (*Prober, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Prober{
		entropy:     opts.Entropy,
		counter:     opts.Counter,
		destination: opts.Destination,
		log:         opts.Log,
		observer:    opts.Observer,
	}, nil
}

// Run executes one probe cycle against the given ledger. It never returns an
// error: every failure ends the cycle with a Failed outcome.
func (p *Prober) Run(
	ctx context.Context, l ports.Ledger,
) (outcome domain.SweepOutcome) {
	c := &cycle{}

	defer func() {
		if r := recover(); r != nil {
			outcome = domain.Failed(
				c.address(), c.balance, fmt.Errorf("%w: %v", ErrCyclePanic, r),
			)
		}
		p.report(c, outcome)
	}()

	return p.run(ctx, l, c)
}

func (p *Prober) run(
	ctx context.Context, l ports.Ledger, c *cycle,
) domain.SweepOutcome {
	if l == nil {
		return domain.Failed(common.Address{}, nil, ErrNullLedger)
	}

	w, err := wallet.NewWallet(wallet.NewWalletOpts{Entropy: p.entropy})
	if err != nil {
		return domain.Failed(common.Address{}, nil, err)
	}
	c.wallet = w
	addr := w.Address()

	balance, err := l.Balance(ctx, addr)
	if err != nil {
		return domain.Failed(addr, nil, err)
	}
	c.balance = balance

	if domain.IsEmpty(balance) {
		return domain.NoFunds(addr, balance)
	}

	fee, err := l.EstimateFee(ctx, addr, domain.TransferIntent{
		Destination: p.destination,
		Amount:      balance,
	})
	if err != nil {
		return domain.Failed(addr, balance, err)
	}
	c.fee = &fee

	decision, err := domain.Evaluate(balance, fee)
	if err != nil {
		return domain.Failed(addr, balance, err)
	}
	if !decision.Sweepable() {
		return domain.FeeExceedsBalance(addr, balance)
	}

	key, err := w.SigningKey()
	if err != nil {
		return domain.Failed(addr, balance, domain.NewSigningError("key", err))
	}

	txid, err := l.SignAndBroadcast(ctx, key, domain.TransferIntent{
		Destination: p.destination,
		Amount:      decision.Net,
	}, fee)
	if err != nil {
		return domain.Failed(addr, balance, err)
	}

	p.counter.Inc()
	return domain.Swept(addr, balance, decision.Net, txid)
}

// report notifies the observer and emits the diagnostic record. It recovers
// from any panic so that reporting never fails a cycle.
func (p *Prober) report(c *cycle, outcome domain.SweepOutcome) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Warn("failed to report probe outcome")
		}
	}()

	if p.observer != nil {
		p.observer.Observe(outcome)
	}

	if outcome.Status == domain.StatusSwept {
		log.WithFields(log.Fields{
			"address": outcome.Address.Hex(),
			"amount":  mathutil.FormatEther(outcome.Amount),
			"tx":      outcome.TxID,
		}).Info("swept wallet")
	}

	if !p.log {
		return
	}

	fields := log.Fields{
		"status":  outcome.Status.String(),
		"balance": c.balanceString(),
		"ether":   mathutil.FormatEther(c.balance),
	}
	if c.fee != nil {
		fields["gas_units"] = c.fee.GasUnits
		fields["gas_price_gwei"] = mathutil.FormatGwei(c.fee.UnitPrice)
	}
	if c.wallet != nil {
		fields["address"] = c.wallet.Address().Hex()
		fields["public_key"] = c.wallet.PublicKeyHex()
		fields["private_key"] = c.wallet.PrivateKeyHex()
	}

	entry := log.WithFields(fields)
	if outcome.Err != nil {
		entry.WithError(outcome.Err).Warn("probe cycle failed")
		return
	}
	entry.Info("probe cycle completed")
}

// cycle holds what the current probe cycle learned so far.
type cycle struct {
	wallet  *wallet.Wallet
	balance *uint256.Int
	fee     *domain.FeeEstimate
}

func (c *cycle) address() common.Address {
	if c.wallet == nil {
		return common.Address{}
	}
	return c.wallet.Address()
}

func (c *cycle) balanceString() string {
	if c.balance == nil {
		return ""
	}
	return c.balance.Dec()
}
