package worker_test

import (
	"context"
	"crypto/ecdsa"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/mock"

	"github.com/sweepd/sweepd/internal/core/domain"
	"github.com/sweepd/sweepd/internal/core/ports"
)

type mockLedgerProvider struct {
	mock.Mock
}

func (m *mockLedgerProvider) Ledger(
	ctx context.Context, worker int,
) (ports.Ledger, error) {
	args := m.Called(ctx, worker)

	var res ports.Ledger
	if a := args.Get(0); a != nil {
		res = a.(ports.Ledger)
	}
	return res, args.Error(1)
}

func (m *mockLedgerProvider) Close() {
	m.Called()
}

// fundedLedger pretends every address holds one ether and accepts every
// transaction.
type fundedLedger struct{}

func (fundedLedger) Balance(
	context.Context, common.Address,
) (*uint256.Int, error) {
	return uint256.NewInt(1_000_000_000_000_000_000), nil
}

func (fundedLedger) EstimateFee(
	context.Context, common.Address, domain.TransferIntent,
) (domain.FeeEstimate, error) {
	return domain.FeeEstimate{
		GasUnits:  21000,
		UnitPrice: uint256.NewInt(50_000_000_000),
	}, nil
}

func (fundedLedger) SignAndBroadcast(
	context.Context, *ecdsa.PrivateKey, domain.TransferIntent,
	domain.FeeEstimate,
) (string, error) {
	return "0x01", nil
}

func (fundedLedger) Close() {}

// recordingProber records the start time of every cycle.
type recordingProber struct {
	lock   sync.Mutex
	starts []time.Time
}

func (p *recordingProber) Run(
	context.Context, ports.Ledger,
) domain.SweepOutcome {
	p.lock.Lock()
	p.starts = append(p.starts, time.Now())
	p.lock.Unlock()

	return domain.NoFunds(common.Address{}, new(uint256.Int))
}

func (p *recordingProber) cycles() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.starts)
}

type recordingNotifier struct {
	lock    sync.Mutex
	workers map[int]bool
}

func (n *recordingNotifier) WorkerStarted(worker int) {
	n.lock.Lock()
	defer n.lock.Unlock()
	if n.workers == nil {
		n.workers = make(map[int]bool)
	}
	n.workers[worker] = true
}
