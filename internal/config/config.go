package config

import (
	"fmt"
	"net/url"
	"runtime"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"

	"github.com/sweepd/sweepd/internal/core/application/worker"
	"github.com/sweepd/sweepd/internal/infrastructure/ledger"
	"github.com/sweepd/sweepd/pkg/wallet"
)

const (
	// DestinationAddressKey is the address receiving every swept balance
	DestinationAddressKey = "DESTINATION_ADDRESS"
	// NodeEndpointKey is the websocket (or http) url of the Ethereum node
	NodeEndpointKey = "NODE_ENDPOINT"
	// ProjectIDKey is the node provider's project id appended to the endpoint
	// path
	ProjectIDKey = "PROJECT_ID"
	// ProjectSecretKey is the optional node provider's project secret sent as
	// basic auth
	ProjectSecretKey = "PROJECT_SECRET"
	// EnableLogKey enables the diagnostic record of every probe cycle
	EnableLogKey = "ENABLE_LOG"
	// CooldownKey is the interval in milliseconds between the start of two
	// cycles in sequential mode
	CooldownKey = "COOLDOWN"
	// ModeKey is either concurrent or sequential
	ModeKey = "MODE"
	// NumWorkersKey is the number of workers in concurrent mode
	NumWorkersKey = "NUM_WORKERS"
	// CyclePauseKey is the pause in milliseconds between two cycles of a
	// worker in concurrent mode
	CyclePauseKey = "CYCLE_PAUSE"
	// ConnectionPolicyKey is either shared (one node connection for all
	// workers) or dedicated (one connection per worker)
	ConnectionPolicyKey = "CONNECTION_POLICY"
	// RequestsPerSecondKey caps the requests sent to the node, 0 means no cap
	RequestsPerSecondKey = "REQUESTS_PER_SECOND"
	// RequestTimeoutKey is the timeout in seconds of every request to the node
	RequestTimeoutKey = "REQUEST_TIMEOUT"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// StatsIntervalKey defines interval in seconds for printing basic
	// statistics, 0 disables them
	StatsIntervalKey = "STATS_INTERVAL"
	// EnableTimingEntropyKey mixes a nanosecond clock reading into the
	// entropy used to generate keys
	EnableTimingEntropyKey = "ENABLE_TIMING_ENTROPY"
	// EnableProfilerKey dumps the prometheus default metrics to a file on
	// stop
	EnableProfilerKey = "ENABLE_PROFILER"
	// MetricsAddrKey is the optional <host:port> address where prometheus
	// metrics are served
	MetricsAddrKey = "METRICS_ADDR"

	defaultNodeEndpoint = "wss://mainnet.infura.io/ws/v3"
)

var vip *viper.Viper

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("SWEEPD")
	vip.AutomaticEnv()

	vip.SetDefault(NodeEndpointKey, defaultNodeEndpoint)
	vip.SetDefault(EnableLogKey, false)
	vip.SetDefault(CooldownKey, worker.DefaultCooldown.Milliseconds())
	vip.SetDefault(ModeKey, worker.ModeConcurrent)
	vip.SetDefault(NumWorkersKey, runtime.NumCPU())
	vip.SetDefault(CyclePauseKey, worker.DefaultPause.Milliseconds())
	vip.SetDefault(ConnectionPolicyKey, ledger.PolicyShared)
	vip.SetDefault(RequestsPerSecondKey, 0)
	vip.SetDefault(RequestTimeoutKey, 15)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(StatsIntervalKey, 600)
	vip.SetDefault(EnableTimingEntropyKey, true)
	vip.SetDefault(EnableProfilerKey, false)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

// GetMilliseconds returns the value of the given key as a duration in
// milliseconds.
func GetMilliseconds(key string) time.Duration {
	return time.Duration(GetInt(key)) * time.Millisecond
}

// GetSeconds returns the value of the given key as a duration in seconds.
func GetSeconds(key string) time.Duration {
	return time.Duration(GetInt(key)) * time.Second
}

// GetDestination returns the validated destination address.
func GetDestination() common.Address {
	addr, _ := wallet.ParseAddress(GetString(DestinationAddressKey))
	return addr
}

func validate() error {
	destination := GetString(DestinationAddressKey)
	if destination == "" {
		return fmt.Errorf("missing destination address")
	}
	if _, err := wallet.ParseAddress(destination); err != nil {
		return fmt.Errorf("invalid destination address: %s", err)
	}

	endpoint, err := url.Parse(GetString(NodeEndpointKey))
	if err != nil || endpoint.Host == "" {
		return fmt.Errorf("invalid node endpoint")
	}

	mode := GetString(ModeKey)
	if mode != worker.ModeConcurrent && mode != worker.ModeSequential {
		return fmt.Errorf(
			"%s must be either %s or %s",
			ModeKey, worker.ModeConcurrent, worker.ModeSequential,
		)
	}

	policy := GetString(ConnectionPolicyKey)
	if policy != ledger.PolicyShared && policy != ledger.PolicyDedicated {
		return fmt.Errorf(
			"%s must be either %s or %s",
			ConnectionPolicyKey, ledger.PolicyShared, ledger.PolicyDedicated,
		)
	}

	if GetInt(NumWorkersKey) <= 0 {
		return fmt.Errorf("%s must be greater than zero", NumWorkersKey)
	}

	for _, key := range []string{
		CooldownKey, CyclePauseKey, RequestsPerSecondKey, RequestTimeoutKey,
		StatsIntervalKey,
	} {
		if GetInt(key) < 0 {
			return fmt.Errorf("%s must not be negative", key)
		}
	}

	return nil
}
