package ports

import (
	"context"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/sweepd/sweepd/internal/core/domain"
)

// Ledger is a live session with a node. Implementations must be safe for
// concurrent use, every call is an independent request-response.
type Ledger interface {
	// Balance returns the confirmed balance of the given address in wei.
	// A zero balance is not an error.
	Balance(ctx context.Context, addr common.Address) (*uint256.Int, error)
	// EstimateFee quotes gas units and unit price for a transfer of the given
	// intent sent by from.
	EstimateFee(
		ctx context.Context, from common.Address, intent domain.TransferIntent,
	) (domain.FeeEstimate, error)
	// SignAndBroadcast signs the transfer with key, paying exactly the given
	// fee, and submits it to the node. It returns the transaction hash once
	// the node accepted it in its pool.
	SignAndBroadcast(
		ctx context.Context, key *ecdsa.PrivateKey,
		intent domain.TransferIntent, fee domain.FeeEstimate,
	) (string, error)
	// Close releases the connection.
	Close()
}

// LedgerProvider hands a Ledger to each worker. Whether the same connection
// is shared among workers is up to the implementation.
type LedgerProvider interface {
	Ledger(ctx context.Context, worker int) (Ledger, error)
	Close()
}
