package ledger

import (
	"context"
	"crypto/ecdsa"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/sony/gobreaker"

	"github.com/sweepd/sweepd/internal/core/domain"
	"github.com/sweepd/sweepd/internal/core/ports"
	"github.com/sweepd/sweepd/pkg/circuitbreaker"
)

type breakerLedger struct {
	ports.Ledger
	cb *gobreaker.CircuitBreaker
}

// WithCircuitBreaker wraps every request to the given ledger with a circuit
// breaker. Once the node keeps failing, requests fail fast with an error
// wrapping gobreaker.ErrOpenState until the breaker lets a probe through.
// Rejected broadcasts are answers of a healthy node and don't count as
// failures.
func WithCircuitBreaker(name string, l ports.Ledger) ports.Ledger {
	return &breakerLedger{
		Ledger: l,
		cb:     circuitbreaker.NewCircuitBreaker(name, isHealthyNodeError),
	}
}

func (b *breakerLedger) Balance(
	ctx context.Context, addr common.Address,
) (*uint256.Int, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.Ledger.Balance(ctx, addr)
	})
	if err != nil {
		return nil, breakerError(domain.NewQueryError, "balance", err)
	}
	return res.(*uint256.Int), nil
}

func (b *breakerLedger) EstimateFee(
	ctx context.Context, from common.Address, intent domain.TransferIntent,
) (domain.FeeEstimate, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.Ledger.EstimateFee(ctx, from, intent)
	})
	if err != nil {
		return domain.FeeEstimate{}, breakerError(
			domain.NewQueryError, "estimate fee", err,
		)
	}
	return res.(domain.FeeEstimate), nil
}

func (b *breakerLedger) SignAndBroadcast(
	ctx context.Context, key *ecdsa.PrivateKey,
	intent domain.TransferIntent, fee domain.FeeEstimate,
) (string, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.Ledger.SignAndBroadcast(ctx, key, intent, fee)
	})
	if err != nil {
		return "", breakerError(domain.NewBroadcastError, "broadcast", err)
	}
	return res.(string), nil
}

// breakerError leaves errors of the wrapped ledger untouched and converts
// those of the breaker into ledger errors of the given kind.
func breakerError(
	newErr func(op string, err error) error, op string, err error,
) error {
	if errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests) {
		return newErr(op, err)
	}
	return err
}

func isHealthyNodeError(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	kind := domain.KindOf(err)
	return kind == domain.KindBroadcast || kind == domain.KindSigning
}
