package wallet_test

import (
	"bytes"
	"crypto/rand"
	"io"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sweepd/sweepd/pkg/wallet"
)

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func scalarBytes(n *big.Int) []byte {
	b := make([]byte, 32)
	return n.FillBytes(b)
}

func TestGenerateKeyPair(t *testing.T) {
	t.Parallel()

	curveOrder := btcec.S256().N
	for i := 0; i < 100; i++ {
		prvkey, pubkey, err := wallet.GenerateKeyPair(rand.Reader)
		require.NoError(t, err)
		require.NotNil(t, prvkey)
		require.NotNil(t, pubkey)

		d := new(big.Int).SetBytes(prvkey.Serialize())
		assert.Equal(t, 1, d.Sign())
		assert.Equal(t, -1, d.Cmp(curveOrder))
		assert.True(t, pubkey.IsEqual(prvkey.PubKey()))
	}
}

func TestGenerateKeyPairRetriesOutOfRangeDraws(t *testing.T) {
	t.Parallel()

	curveOrder := btcec.S256().N
	nPlusOne := new(big.Int).Add(curveOrder, big.NewInt(1))

	entropy := bytes.NewBuffer(nil)
	entropy.Write(make([]byte, 32))
	entropy.Write(scalarBytes(curveOrder))
	entropy.Write(scalarBytes(nPlusOne))
	entropy.Write(bytes.Repeat([]byte{0xff}, 32))
	entropy.Write(scalarBytes(big.NewInt(1)))

	prvkey, pubkey, err := wallet.GenerateKeyPair(entropy)
	require.NoError(t, err)
	require.Equal(t, scalarBytes(big.NewInt(1)), prvkey.Serialize())
	require.Equal(
		t,
		"0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf",
		wallet.PublicKeyAddress(pubkey).Hex(),
	)
	require.Zero(t, entropy.Len())
}

func TestFailingGenerateKeyPair(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		entropy       wallet.EntropySource
		expectedError error
	}{
		{
			name:          "null_entropy_source",
			entropy:       nil,
			expectedError: wallet.ErrNullEntropySource,
		},
		{
			name:          "exhausted_entropy",
			entropy:       zeroReader{},
			expectedError: wallet.ErrEntropyExhausted,
		},
		{
			name:          "short_entropy",
			entropy:       bytes.NewReader(make([]byte, 16)),
			expectedError: io.ErrUnexpectedEOF,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			prvkey, pubkey, err := wallet.GenerateKeyPair(tt.entropy)
			require.ErrorIs(t, err, tt.expectedError)
			require.Nil(t, prvkey)
			require.Nil(t, pubkey)
		})
	}
}

func TestIsValidPrivateKey(t *testing.T) {
	t.Parallel()

	curveOrder := btcec.S256().N
	nMinusOne := new(big.Int).Sub(curveOrder, big.NewInt(1))

	tests := []struct {
		key   []byte
		valid bool
	}{
		{scalarBytes(big.NewInt(0)), false},
		{scalarBytes(big.NewInt(1)), true},
		{scalarBytes(nMinusOne), true},
		{scalarBytes(curveOrder), false},
		{bytes.Repeat([]byte{0xff}, 32), false},
		{[]byte{0x01}, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, wallet.IsValidPrivateKey(tt.key), "%x", tt.key)
	}
}
