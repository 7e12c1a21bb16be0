package wallet_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/require"
	"github.com/sweepd/sweepd/pkg/wallet"
)

func TestPublicKeyAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		privateKey      int64
		expectedAddress string
	}{
		{1, "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"},
		{2, "0x2B5AD5c4795c026514f8317c7a215E218DcCD6cF"},
	}

	for _, tt := range tests {
		_, pubkey := btcec.PrivKeyFromBytes(scalarBytes(big.NewInt(tt.privateKey)))
		addr := wallet.PublicKeyAddress(pubkey)
		require.Equal(t, tt.expectedAddress, addr.Hex())
		require.Len(t, addr.Bytes(), 20)
	}
}

func TestPublicKeyAddressIsDeterministic(t *testing.T) {
	t.Parallel()

	for i := 0; i < 20; i++ {
		_, pubkey, err := wallet.GenerateKeyPair(rand.Reader)
		require.NoError(t, err)

		addr := wallet.PublicKeyAddress(pubkey)
		require.Len(t, addr.Bytes(), 20)

		// same key parsed back from its serialization yields the same address
		parsed, err := btcec.ParsePubKey(pubkey.SerializeCompressed())
		require.NoError(t, err)
		require.Equal(t, addr, wallet.PublicKeyAddress(parsed))
	}
}

func TestParseAddress(t *testing.T) {
	t.Parallel()

	addr, err := wallet.ParseAddress("0x2B5AD5c4795c026514f8317c7a215E218DcCD6cF")
	require.NoError(t, err)
	require.Equal(t, "0x2B5AD5c4795c026514f8317c7a215E218DcCD6cF", addr.Hex())

	addr, err = wallet.ParseAddress("0x7e5f4552091a69125d5dfcb7b8c2659029395bdf")
	require.NoError(t, err)
	require.Equal(t, "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf", addr.Hex())
}

func TestFailingParseAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		address       string
		expectedError error
	}{
		{"empty", "", wallet.ErrInvalidAddress},
		{"missing_prefix", "7e5f4552091a69125d5dfcb7b8c2659029395bdf", wallet.ErrInvalidAddress},
		{"too_short", "0x7e5f4552091a69125d5dfcb7b8c2659029395b", wallet.ErrInvalidAddress},
		{"not_hex", "0x7e5f4552091a69125d5dfcb7b8c2659029395bzz", wallet.ErrInvalidAddress},
		{"bad_checksum", "0x7E5F4552091A69125d5DfCb7b8C2659029395BDf", wallet.ErrInvalidAddressChecksum},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := wallet.ParseAddress(tt.address)
			require.ErrorIs(t, err, tt.expectedError)
		})
	}
}
