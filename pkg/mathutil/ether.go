package mathutil

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

const (
	// EtherDecimals is the precision of 1 ether expressed in wei.
	EtherDecimals = 18
	// GweiDecimals is the precision of 1 gwei expressed in wei.
	GweiDecimals = 9
)

// WeiToEther converts an amount in wei to ether without loss of precision.
func WeiToEther(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -EtherDecimals)
}

// WeiToGwei converts an amount in wei to gwei without loss of precision.
func WeiToGwei(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -GweiDecimals)
}

// FormatEther returns the given amount of wei as a decimal string of ether.
func FormatEther(wei *uint256.Int) string {
	if wei == nil {
		return decimal.Zero.String()
	}
	return WeiToEther(wei.ToBig()).String()
}

// FormatGwei returns the given amount of wei as a decimal string of gwei.
func FormatGwei(wei *uint256.Int) string {
	if wei == nil {
		return decimal.Zero.String()
	}
	return WeiToGwei(wei.ToBig()).String()
}
