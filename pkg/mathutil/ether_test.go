package mathutil_test

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/sweepd/sweepd/pkg/mathutil"
)

func TestFormatEther(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wei      *uint256.Int
		expected string
	}{
		{nil, "0"},
		{uint256.NewInt(0), "0"},
		{uint256.NewInt(1), "0.000000000000000001"},
		{uint256.MustFromDecimal("1000000000000000000"), "1"},
		{uint256.MustFromDecimal("999998950000000000"), "0.99999895"},
		{uint256.MustFromDecimal("123456789000000000000000"), "123456.789"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.expected, mathutil.FormatEther(tt.wei))
	}
}

func TestFormatGwei(t *testing.T) {
	t.Parallel()

	require.Equal(t, "50", mathutil.FormatGwei(uint256.NewInt(50_000_000_000)))
	require.Equal(t, "0.5", mathutil.FormatGwei(uint256.NewInt(500_000_000)))
	require.True(t, mathutil.WeiToGwei(nil).IsZero())
}

func TestWeiToEther(t *testing.T) {
	t.Parallel()

	wei, _ := new(big.Int).SetString("1050000000000000", 10)
	require.Equal(t, "0.00105", mathutil.WeiToEther(wei).String())
}
