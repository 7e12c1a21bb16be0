package domain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// OutcomeStatus is the state a probe cycle ended up in.
type OutcomeStatus int

const (
	// StatusNoFunds means the probed address holds a zero balance.
	StatusNoFunds OutcomeStatus = iota
	// StatusFeeExceedsBalance means the network fee would consume the whole
	// balance.
	StatusFeeExceedsBalance
	// StatusSweepable is not a terminal status: the balance is worth sweeping
	// and the transfer is about to be broadcast.
	StatusSweepable
	// StatusSwept means the node accepted the sweep transaction in its pool.
	StatusSwept
	// StatusFailed means the cycle stopped because of an error.
	StatusFailed
)

var statusToString = map[OutcomeStatus]string{
	StatusNoFunds:           "NO_FUNDS",
	StatusFeeExceedsBalance: "FEE_EXCEEDS_BALANCE",
	StatusSweepable:         "SWEEPABLE",
	StatusSwept:             "SWEPT",
	StatusFailed:            "FAILED",
}

func (s OutcomeStatus) String() string {
	return statusToString[s]
}

// SweepOutcome is the result of one probe cycle.
type SweepOutcome struct {
	Status OutcomeStatus
	// Address is the probed address, zero if key generation failed.
	Address common.Address
	// Balance is nil if the balance lookup did not complete.
	Balance *uint256.Int
	// Amount is the net amount sent to the destination.
	Amount *uint256.Int
	// TxID is the hash of the broadcast transaction, set only if Swept.
	TxID string
	// Err is set only if Failed.
	Err error
}

// NoFunds returns a NoFunds outcome for the given address.
func NoFunds(addr common.Address, balance *uint256.Int) SweepOutcome {
	return SweepOutcome{Status: StatusNoFunds, Address: addr, Balance: balance}
}

// FeeExceedsBalance returns a FeeExceedsBalance outcome for the given address.
func FeeExceedsBalance(addr common.Address, balance *uint256.Int) SweepOutcome {
	return SweepOutcome{
		Status: StatusFeeExceedsBalance, Address: addr, Balance: balance,
	}
}

// Swept returns a Swept outcome carrying the id of the broadcast transaction.
func Swept(
	addr common.Address, balance, amount *uint256.Int, txid string,
) SweepOutcome {
	return SweepOutcome{
		Status:  StatusSwept,
		Address: addr,
		Balance: balance,
		Amount:  amount,
		TxID:    txid,
	}
}

// Failed returns a Failed outcome wrapping the given error.
func Failed(addr common.Address, balance *uint256.Int, err error) SweepOutcome {
	return SweepOutcome{
		Status: StatusFailed, Address: addr, Balance: balance, Err: err,
	}
}
