package prober_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/sweepd/sweepd/internal/core/application/prober"
	"github.com/sweepd/sweepd/internal/core/domain"
)

func TestMultiObserver(t *testing.T) {
	t.Parallel()

	first, second := &recordingObserver{}, &recordingObserver{}
	observer := prober.MultiObserver(first, nil, second)

	outcome := domain.NoFunds(common.Address{}, new(uint256.Int))
	observer.Observe(outcome)

	require.Equal(t, []domain.SweepOutcome{outcome}, first.outcomes)
	require.Equal(t, []domain.SweepOutcome{outcome}, second.outcomes)
}
