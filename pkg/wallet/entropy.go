package wallet

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"sync"
	"time"

	"golang.org/x/crypto/sha3"
)

// EntropySource is where private keys are drawn from.
type EntropySource io.Reader

// Clock returns a fine-grained timing reading used to perturb the output of
// an entropy source.
type Clock func() uint64

// NanoTime packs the seconds since epoch in the upper bits and the
// nanoseconds of the current second in the lower 30 bits.
func NanoTime() uint64 {
	now := time.Now()
	return uint64(now.Unix())<<30 | uint64(now.Nanosecond())
}

// NewEntropySource returns an entropy source reading from base, or from the
// system CSPRNG if base is nil. If clock is not nil, every 32-byte block read
// from base is hashed together with a clock reading and a counter, so that
// rapid successive reads on the same host are further diversified. The
// timing perturbation never replaces base as the source of randomness.
func NewEntropySource(base io.Reader, clock Clock) EntropySource {
	if base == nil {
		base = rand.Reader
	}
	if clock == nil {
		return base
	}
	return &perturbedSource{base: base, clock: clock}
}

type perturbedSource struct {
	base  io.Reader
	clock Clock

	lock    sync.Mutex
	counter uint64
}

func (s *perturbedSource) Read(p []byte) (int, error) {
	block := make([]byte, 32)
	defer zero(block)

	n := 0
	for n < len(p) {
		if _, err := io.ReadFull(s.base, block); err != nil {
			return n, err
		}

		hasher := sha3.NewLegacyKeccak256()
		hasher.Write(block)
		hasher.Write(s.nextSalt())
		n += copy(p[n:], hasher.Sum(nil))
	}
	return n, nil
}

func (s *perturbedSource) nextSalt() []byte {
	s.lock.Lock()
	s.counter++
	counter := s.counter
	s.lock.Unlock()

	salt := make([]byte, 16)
	binary.BigEndian.PutUint64(salt[:8], s.clock())
	binary.BigEndian.PutUint64(salt[8:], counter)
	return salt
}
