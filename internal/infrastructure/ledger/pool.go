package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"

	"github.com/sweepd/sweepd/internal/core/ports"
	"github.com/sweepd/sweepd/internal/infrastructure/ledger/ethereum"
)

const (
	// PolicyShared makes all workers share the same node connection.
	PolicyShared = "shared"
	// PolicyDedicated gives every worker its own node connection.
	PolicyDedicated = "dedicated"
)

var (
	// ErrUnknownPolicy ...
	ErrUnknownPolicy = errors.New(
		"connection policy must be either shared or dedicated",
	)
	// ErrPoolClosed ...
	ErrPoolClosed = errors.New("ledger pool is closed")
)

// DialFunc opens a new connection with the node.
type DialFunc func(ctx context.Context) (ports.Ledger, error)

// EthereumDialer returns a DialFunc connecting to the Ethereum node described
// by cfg.
func EthereumDialer(cfg ethereum.Config) DialFunc {
	return func(ctx context.Context) (ports.Ledger, error) {
		return ethereum.Dial(ctx, cfg)
	}
}

// NewPoolOpts is the struct given to the NewPool method
type NewPoolOpts struct {
	Dial   DialFunc
	Policy string
	// Limiter, if not nil, is shared by all the connections of the pool.
	Limiter ratelimit.Limiter
	// WithCircuitBreaker wraps every connection with a circuit breaker.
	WithCircuitBreaker bool
}

func (o NewPoolOpts) validate() error {
	if o.Dial == nil {
		return fmt.Errorf("dial func must not be null")
	}
	if o.Policy != PolicyShared && o.Policy != PolicyDedicated {
		return ErrUnknownPolicy
	}
	return nil
}

// Pool is a ports.LedgerProvider handing connections to workers according to
// its policy. Connections are opened lazily on the first request.
type Pool struct {
	opts NewPoolOpts

	lock    sync.Mutex
	shared  ports.Ledger
	ledgers map[int]ports.Ledger
	closed  bool
}

// NewPool returns a new ledger pool.
func NewPool(opts NewPoolOpts) (*Pool, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Pool{
		opts:    opts,
		ledgers: make(map[int]ports.Ledger),
	}, nil
}

// Ledger returns the connection of the given worker. With shared policy the
// same connection is returned to every worker, with dedicated policy every
// worker gets its own. A worker asking twice gets the same connection.
func (p *Pool) Ledger(ctx context.Context, worker int) (ports.Ledger, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.closed {
		return nil, ErrPoolClosed
	}

	if p.opts.Policy == PolicyShared {
		if p.shared == nil {
			l, err := p.dial(ctx, "node")
			if err != nil {
				return nil, err
			}
			p.shared = l
		}
		return p.shared, nil
	}

	if l, ok := p.ledgers[worker]; ok {
		return l, nil
	}
	l, err := p.dial(ctx, fmt.Sprintf("node-%d", worker))
	if err != nil {
		return nil, err
	}
	p.ledgers[worker] = l

	log.WithField("worker", worker).Debug("opened dedicated node connection")
	return l, nil
}

// Close closes every connection opened by the pool.
func (p *Pool) Close() {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.closed {
		return
	}
	p.closed = true

	if p.shared != nil {
		p.shared.Close()
		p.shared = nil
	}
	for worker, l := range p.ledgers {
		l.Close()
		delete(p.ledgers, worker)
	}
}

func (p *Pool) dial(ctx context.Context, name string) (ports.Ledger, error) {
	l, err := p.opts.Dial(ctx)
	if err != nil {
		return nil, err
	}

	if p.opts.Limiter != nil {
		l = WithRateLimit(l, p.opts.Limiter)
	}
	if p.opts.WithCircuitBreaker {
		l = WithCircuitBreaker(name, l)
	}
	return l, nil
}

var _ ports.LedgerProvider = (*Pool)(nil)
