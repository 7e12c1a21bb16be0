package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// FeeEstimate is the network fee quoted by the node for a transfer. The cost
// is GasUnits*UnitPrice, in wei.
type FeeEstimate struct {
	GasUnits  uint64
	UnitPrice *uint256.Int
}

// Cost returns GasUnits*UnitPrice. The second value is true if the product
// does not fit 256 bits.
func (f FeeEstimate) Cost() (*uint256.Int, bool) {
	if f.UnitPrice == nil {
		return new(uint256.Int), false
	}
	return new(uint256.Int).MulOverflow(uint256.NewInt(f.GasUnits), f.UnitPrice)
}

// TransferIntent describes the sweep of Amount wei to Destination.
type TransferIntent struct {
	Destination common.Address
	Amount      *uint256.Int
}

// SweepDecision is the result of evaluating a balance against a fee.
type SweepDecision struct {
	Status OutcomeStatus
	// Cost of the transfer, nil if the fee was not evaluated.
	Cost *uint256.Int
	// Net is the transferable amount, set only when Sweepable() is true.
	Net *uint256.Int
}

// Sweepable returns whether the decision allows to broadcast a transfer.
func (d SweepDecision) Sweepable() bool {
	return d.Status == StatusSweepable
}

// IsEmpty returns whether the given balance holds no funds. Callers must check
// it before asking the node for a fee estimate.
func IsEmpty(balance *uint256.Int) bool {
	return balance == nil || balance.IsZero()
}

// Evaluate decides whether a sweep of the given balance is worth it once the
// fee is deducted from the swept amount.
func Evaluate(balance *uint256.Int, fee FeeEstimate) (SweepDecision, error) {
	if balance == nil {
		return SweepDecision{}, ErrNilBalance
	}
	if balance.IsZero() {
		return SweepDecision{Status: StatusNoFunds}, nil
	}
	if fee.UnitPrice == nil {
		return SweepDecision{}, ErrNilFeePrice
	}

	cost, overflow := fee.Cost()
	if overflow || cost.Cmp(balance) >= 0 {
		return SweepDecision{Status: StatusFeeExceedsBalance, Cost: cost}, nil
	}

	net, _ := new(uint256.Int).SubOverflow(balance, cost)
	return SweepDecision{
		Status: StatusSweepable,
		Cost:   cost,
		Net:    net,
	}, nil
}

// BalanceFromBig converts a balance reported by the node into a 256-bit
// unsigned integer.
func BalanceFromBig(b *big.Int) (*uint256.Int, error) {
	if b == nil {
		return nil, ErrNilBalance
	}
	if b.Sign() < 0 {
		return nil, ErrBalanceOverflow
	}
	balance, overflow := uint256.FromBig(b)
	if overflow {
		return nil, ErrBalanceOverflow
	}
	return balance, nil
}
