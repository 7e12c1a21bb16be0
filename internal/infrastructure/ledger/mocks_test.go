package ledger_test

import (
	"context"
	"crypto/ecdsa"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/mock"

	"github.com/sweepd/sweepd/internal/core/domain"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Balance(
	ctx context.Context, addr common.Address,
) (*uint256.Int, error) {
	args := m.Called(ctx, addr)

	var res *uint256.Int
	if a := args.Get(0); a != nil {
		res = a.(*uint256.Int)
	}
	return res, args.Error(1)
}

func (m *mockLedger) EstimateFee(
	ctx context.Context, from common.Address, intent domain.TransferIntent,
) (domain.FeeEstimate, error) {
	args := m.Called(ctx, from, intent)

	var res domain.FeeEstimate
	if a := args.Get(0); a != nil {
		res = a.(domain.FeeEstimate)
	}
	return res, args.Error(1)
}

func (m *mockLedger) SignAndBroadcast(
	ctx context.Context, key *ecdsa.PrivateKey,
	intent domain.TransferIntent, fee domain.FeeEstimate,
) (string, error) {
	args := m.Called(ctx, key, intent, fee)

	var res string
	if a := args.Get(0); a != nil {
		res = a.(string)
	}
	return res, args.Error(1)
}

func (m *mockLedger) Close() {
	m.Called()
}

type countingLimiter struct {
	takes int
}

func (l *countingLimiter) Take() time.Time {
	l.takes++
	return time.Now()
}
