package ethereum

import (
	"context"
	"math/big"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) ChainID(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)

	var res *big.Int
	if a := args.Get(0); a != nil {
		res = a.(*big.Int)
	}
	return res, args.Error(1)
}

func (m *mockBackend) BalanceAt(
	ctx context.Context, account common.Address, blockNumber *big.Int,
) (*big.Int, error) {
	args := m.Called(ctx, account, blockNumber)

	var res *big.Int
	if a := args.Get(0); a != nil {
		res = a.(*big.Int)
	}
	return res, args.Error(1)
}

func (m *mockBackend) EstimateGas(
	ctx context.Context, msg geth.CallMsg,
) (uint64, error) {
	args := m.Called(ctx, msg)

	var res uint64
	if a := args.Get(0); a != nil {
		res = a.(uint64)
	}
	return res, args.Error(1)
}

func (m *mockBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)

	var res *big.Int
	if a := args.Get(0); a != nil {
		res = a.(*big.Int)
	}
	return res, args.Error(1)
}

func (m *mockBackend) PendingNonceAt(
	ctx context.Context, account common.Address,
) (uint64, error) {
	args := m.Called(ctx, account)

	var res uint64
	if a := args.Get(0); a != nil {
		res = a.(uint64)
	}
	return res, args.Error(1)
}

func (m *mockBackend) SendTransaction(
	ctx context.Context, tx *types.Transaction,
) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *mockBackend) Close() {
	m.Called()
}
