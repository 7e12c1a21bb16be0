package ledger

import (
	"context"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/ratelimit"

	"github.com/sweepd/sweepd/internal/core/domain"
	"github.com/sweepd/sweepd/internal/core/ports"
)

type rateLimitedLedger struct {
	ports.Ledger
	limiter ratelimit.Limiter
}

// WithRateLimit makes every request to the given ledger wait for the limiter,
// to stay within the request quota of a node provider. The limiter can be
// shared among several ledgers.
func WithRateLimit(l ports.Ledger, limiter ratelimit.Limiter) ports.Ledger {
	if limiter == nil {
		return l
	}
	return &rateLimitedLedger{l, limiter}
}

// NewLimiter returns a limiter allowing rps requests per second, or an
// unlimited one if rps is not positive.
func NewLimiter(rps int) ratelimit.Limiter {
	if rps <= 0 {
		return ratelimit.NewUnlimited()
	}
	return ratelimit.New(rps)
}

func (r *rateLimitedLedger) Balance(
	ctx context.Context, addr common.Address,
) (*uint256.Int, error) {
	r.limiter.Take()
	return r.Ledger.Balance(ctx, addr)
}

func (r *rateLimitedLedger) EstimateFee(
	ctx context.Context, from common.Address, intent domain.TransferIntent,
) (domain.FeeEstimate, error) {
	// estimating a fee takes two requests: gas units and gas price.
	r.limiter.Take()
	r.limiter.Take()
	return r.Ledger.EstimateFee(ctx, from, intent)
}

func (r *rateLimitedLedger) SignAndBroadcast(
	ctx context.Context, key *ecdsa.PrivateKey,
	intent domain.TransferIntent, fee domain.FeeEstimate,
) (string, error) {
	// pending nonce and raw transaction submission.
	r.limiter.Take()
	r.limiter.Take()
	return r.Ledger.SignAndBroadcast(ctx, key, intent, fee)
}
