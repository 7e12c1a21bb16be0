package wallet

import (
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
)

const (
	privateKeySize = 32
	// the probability for a uniform draw to fall outside of [1, n-1] is about
	// 2^-128, so reaching this cap means the entropy source is broken.
	maxKeyGenAttempts = 64
)

// GenerateKeyPair draws a private scalar uniformly in [1, n-1], where n is the
// order of the secp256k1 curve, and returns it together with its public point.
// Draws that are zero or not lower than n are discarded and retried.
func GenerateKeyPair(src EntropySource) (
	*btcec.PrivateKey,
	*btcec.PublicKey,
	error,
) {
	if src == nil {
		return nil, nil, ErrNullEntropySource
	}

	buf := make([]byte, privateKeySize)
	defer zero(buf)

	for i := 0; i < maxKeyGenAttempts; i++ {
		if _, err := io.ReadFull(src, buf); err != nil {
			return nil, nil, err
		}

		if !IsValidPrivateKey(buf) {
			continue
		}

		prvkey, pubkey := btcec.PrivKeyFromBytes(buf)
		return prvkey, pubkey, nil
	}

	return nil, nil, ErrEntropyExhausted
}

// IsValidPrivateKey returns whether the given 32-byte big-endian integer is a
// valid secp256k1 private scalar, ie. it's neither zero nor greater or equal
// than the curve order.
func IsValidPrivateKey(key []byte) bool {
	if len(key) != privateKeySize {
		return false
	}

	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(key); overflow {
		return false
	}
	defer scalar.Zero()

	return !scalar.IsZero()
}

func zero(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
