package prober_test

import (
	"context"
	"crypto/ecdsa"
	"io"
	"sync"

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

type recordingObserver struct {
	lock     sync.Mutex
	outcomes []domain.SweepOutcome
}

func (o *recordingObserver) Observe(outcome domain.SweepOutcome) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

// keyReader endlessly repeats the same 32-byte private key.
type keyReader struct {
	key []byte
}

func (r keyReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.key[i%len(r.key)]
	}
	return len(p), nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

type panickingObserver struct{}

func (panickingObserver) Observe(domain.SweepOutcome) {
	panic("display is gone")
}
