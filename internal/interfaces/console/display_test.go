package console_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/sweepd/sweepd/internal/core/domain"
	"github.com/sweepd/sweepd/internal/interfaces/console"
)

var addr = common.HexToAddress("0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf")

func TestDisplay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		verbose    bool
		outcome    domain.SweepOutcome
		contains   []string
		notContain string
	}{
		{
			name:    "swept",
			outcome: domain.Swept(addr, uint256.NewInt(2), uint256.NewInt(1), "0xabc"),
			contains: []string{
				"Valid wallet", addr.Hex(), "Transaction hash: 0xabc",
			},
		},
		{
			name:     "failed",
			outcome:  domain.Failed(addr, nil, fmt.Errorf("i/o timeout")),
			contains: []string{"Error:", "i/o timeout"},
		},
		{
			name:       "no funds quiet",
			outcome:    domain.NoFunds(addr, new(uint256.Int)),
			notContain: "Invalid wallet",
		},
		{
			name:     "no funds verbose",
			verbose:  true,
			outcome:  domain.NoFunds(addr, new(uint256.Int)),
			contains: []string{"Invalid wallet"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := &bytes.Buffer{}
			d := console.NewDisplay(out, &domain.SweepCounter{}, tt.verbose)
			d.Observe(tt.outcome)

			for _, s := range tt.contains {
				require.Contains(t, out.String(), s)
			}
			if tt.notContain != "" {
				require.NotContains(t, out.String(), tt.notContain)
			}
			// not a terminal, no title escape sequence.
			require.NotContains(t, out.String(), "\033]0;")
		})
	}
}

func TestDisplayWorkers(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	d := console.NewDisplay(out, &domain.SweepCounter{}, false)
	d.WorkerStarted(0)
	d.WorkerStarted(1)
	d.Generating(2)

	require.Equal(
		t,
		"Started worker 0\nStarted worker 1\nGenerating with 2 workers\n"+
			"Press enter to stop...\n",
		out.String(),
	)
}

func TestDisplayIgnoresWriteErrors(t *testing.T) {
	t.Parallel()

	d := console.NewDisplay(failingWriter{}, &domain.SweepCounter{}, true)
	require.NotPanics(t, func() {
		d.Observe(domain.NoFunds(addr, new(uint256.Int)))
	})
}

func TestWaitForKeypress(t *testing.T) {
	t.Parallel()

	require.NoError(t, console.WaitForKeypress(strings.NewReader("\n")))
	require.ErrorIs(t, console.WaitForKeypress(strings.NewReader("")), io.EOF)

	readErr := errors.New("closed")
	err := console.WaitForKeypress(errReader{readErr})
	require.ErrorIs(t, err, readErr)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

type errReader struct {
	err error
}

func (r errReader) Read([]byte) (int, error) {
	return 0, r.err
}
