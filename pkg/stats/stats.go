package stats

import (
	"bufio"
	"context"
	"os"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const (
	BYTE = 1 << (10 * iota)
	KILOBYTE
	MEGABYTE
	GIGABYTE
	TERABYTE

	// DumpFile is where the prometheus default metrics are written on stop.
	DumpFile = "stats"
)

// CycleSource exposes the cycle counters to be printed together with the
// runtime statistics.
type CycleSource interface {
	Cycles() uint64
	Swept() int64
}

// EnableStatistics enables go routine that periodically prints memory usage
// of the go process and, if src is not nil, the number of probe cycles per
// second and sweeps since start. If dumpOnStop is true, the default
// prometheus metrics are dumped to DumpFile when the context is canceled.
func EnableStatistics(
	ctx context.Context, interval time.Duration, src CycleSource,
	dumpOnStop bool,
) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		var lastCycles uint64
		lastTick := time.Now()
		for {
			select {
			case now := <-ticker.C:
				PrintMemoryStatistics()
				PrintNumOfRoutines()
				if src != nil {
					cycles := src.Cycles()
					PrintCycleStatistics(
						cycles-lastCycles, now.Sub(lastTick), src.Swept(),
					)
					lastCycles, lastTick = cycles, now
				}
			case <-ctx.Done():
				if dumpOnStop {
					if err := DumpPrometheusDefaults(DumpFile); err != nil {
						log.WithError(err).Warn("failed to dump statistics")
					}
				}
				return
			}
		}
	}()
}

// toGigabytes returns given memory in bytes to gigabytes.
func toGigabytes(bytes uint64) float64 {
	return float64(bytes) / GIGABYTE
}

// PrintMemoryStatistics prints memory statistics using go runtime library.
func PrintMemoryStatistics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	log.Infof(
		"Total allocated: %.3fGB, Heap allocated: %.3fGB, "+
			"Allocated objects count: %v, Freed objects count: %v",
		toGigabytes(memStats.TotalAlloc),
		toGigabytes(memStats.HeapAlloc),
		memStats.Mallocs,
		memStats.Frees,
	)
}

// PrintCycleStatistics prints the rate of the cycles run in the given
// interval and the number of sweeps since start.
func PrintCycleStatistics(cycles uint64, elapsed time.Duration, swept int64) {
	log.Infof(
		"Probe cycles: %.2f/s, Swept wallets: %d", CycleRate(cycles, elapsed), swept,
	)
}

// CycleRate returns the number of cycles per second.
func CycleRate(cycles uint64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(cycles) / elapsed.Seconds()
}

// DumpPrometheusDefaults write default Prometheus metrics to a file
func DumpPrometheusDefaults(path string) error {
	file, err := os.OpenFile(
		path,
		os.O_APPEND|os.O_CREATE|os.O_RDWR,
		0644,
	)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	metricFamily, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, v := range metricFamily {
		if _, err := writer.WriteString(v.String() + "\n"); err != nil {
			return err
		}
	}

	return writer.Flush()
}

// PrintNumOfRoutines prints number of go routines currently running
func PrintNumOfRoutines() {
	log.Infof("Num of go routines: %v", runtime.NumGoroutine())
}
