package console

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/pterm/pterm"
	"golang.org/x/term"

	"github.com/sweepd/sweepd/internal/core/domain"
)

// Display prints the progress of the workers for the operator. Write errors
// are ignored, a broken terminal must never affect the workers.
type Display struct {
	out     io.Writer
	counter *domain.SweepCounter
	verbose bool
	isTTY   bool

	lock      sync.Mutex
	generated atomic.Uint64
}

// NewDisplay returns a display writing to out. The terminal title is updated
// only if out is a terminal. If verbose is true, wallets with nothing to
// sweep are reported too.
func NewDisplay(
	out io.Writer, counter *domain.SweepCounter, verbose bool,
) *Display {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return &Display{
		out:     out,
		counter: counter,
		verbose: verbose,
		isTTY:   isTTY,
	}
}

// WorkerStarted reports a started worker.
func (d *Display) WorkerStarted(worker int) {
	d.println(fmt.Sprintf("Started worker %d", worker))
}

// Generating reports how many workers are running.
func (d *Display) Generating(workers int) {
	d.println(fmt.Sprintf("Generating with %d workers", workers))
	d.println("Press enter to stop...")
}

// Observe reports the outcome of a probe cycle.
func (d *Display) Observe(outcome domain.SweepOutcome) {
	generated := d.generated.Add(1)

	switch outcome.Status {
	case domain.StatusSwept:
		d.println(
			pterm.FgGreen.Sprint("Valid wallet"),
			fmt.Sprintf("Address: %s", outcome.Address.Hex()),
			fmt.Sprintf("Transaction hash: %s", outcome.TxID),
		)
	case domain.StatusFailed:
		d.println(fmt.Sprintf("Error: %s", pterm.FgRed.Sprint(outcome.Err)))
	default:
		if d.verbose {
			d.println(pterm.FgRed.Sprint("Invalid wallet"))
		}
	}

	d.setTitle(fmt.Sprintf(
		"Amount generated: %d | Swept: %d", generated, d.counter.Value(),
	))
}

func (d *Display) setTitle(title string) {
	if !d.isTTY {
		return
	}
	d.lock.Lock()
	defer d.lock.Unlock()

	// OSC 0 sets both icon name and window title.
	fmt.Fprintf(d.out, "\033]0;%s\007", title)
}

// println writes the given lines at once so that lines of different workers
// don't interleave.
func (d *Display) println(lines ...string) {
	d.lock.Lock()
	defer d.lock.Unlock()

	for _, line := range lines {
		fmt.Fprintln(d.out, line)
	}
}

// WaitForKeypress blocks until a byte is read from r. It returns io.EOF if r
// has nothing to read, like a detached stdin.
func WaitForKeypress(r io.Reader) error {
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
