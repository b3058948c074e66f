// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/luxfi/sequencer-core/component"
)

// Viper/flag keys, following the flat dotted-key convention the
// teacher's cmd/simulator config package uses for its own pflag/viper
// wiring.
const (
	VersionKey  = "version"
	LogLevelKey = "log-level"

	MempoolModeKey            = "mempool.mode"
	MempoolQueueSizeKey       = "mempool.queue-size"
	MempoolGasPriceThreshold  = "mempool.gas-price-threshold"
	L1ProviderModeKey         = "l1-provider.mode"
	L1ProviderQueueSizeKey    = "l1-provider.queue-size"
	L1ProviderReorgLookback   = "l1-provider.reorg-lookback"
	L1ProviderCrawlerInterval = "l1-provider.crawler-poll-interval"
	RemoteListenAddrKey       = "remote.listen-addr"
	MetricsListenAddrKey      = "metrics.listen-addr"
)

// Version is the sequencer binary's reported version.
const Version = "0.1.0"

// Config is the fully resolved node configuration, parsed out of a
// *viper.Viper populated by flags, environment variables, or a config
// file.
type Config struct {
	LogLevel string

	MempoolMode              component.ExecutionMode
	MempoolQueueSize         int
	MempoolGasPriceThreshold uint64

	L1ProviderMode              component.ExecutionMode
	L1ProviderQueueSize         int
	L1ProviderReorgLookback     time.Duration
	L1ProviderCrawlerPollPeriod time.Duration

	RemoteListenAddr  string
	MetricsListenAddr string
}

// BuildFlagSet declares every flag BuildConfig later reads back out of
// viper, the same two-step flag-then-viper wiring the teacher's
// cmd/simulator main uses.
func BuildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("sequencer", pflag.ContinueOnError)

	fs.Bool(VersionKey, false, "print version and exit")
	fs.String(LogLevelKey, "info", "log level (trace|debug|info|warn|error|crit)")

	fs.String(MempoolModeKey, "LocalExecutionWithRemoteDisabled", "mempool component execution mode")
	fs.Int(MempoolQueueSizeKey, component.DefaultInvocationsQueueSize, "mempool request queue size")
	fs.Uint64(MempoolGasPriceThreshold, 0, "minimum L2 gas price admitted into a proposal (0 disables gating)")

	fs.String(L1ProviderModeKey, "LocalExecutionWithRemoteDisabled", "L1 provider component execution mode")
	fs.Int(L1ProviderQueueSizeKey, component.DefaultInvocationsQueueSize, "L1 provider request queue size")
	fs.Duration(L1ProviderReorgLookback, time.Hour, "how far to rewind the L1 crawler cursor on reorg")
	fs.Duration(L1ProviderCrawlerInterval, 2*time.Second, "L1 crawler poll interval")

	fs.String(RemoteListenAddrKey, "127.0.0.1:8645", "listen address for components running with a remote server enabled")
	fs.String(MetricsListenAddrKey, "127.0.0.1:9090", "listen address for the Prometheus /metrics endpoint")

	return fs
}

// BuildViper parses args against fs and returns a *viper.Viper bound to
// the resulting flag values.
func BuildViper(fs *pflag.FlagSet, args []string) (*viper.Viper, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	return v, nil
}

// BuildConfig resolves a fully-typed Config out of v, including parsing
// the ExecutionMode strings.
func BuildConfig(v *viper.Viper) (Config, error) {
	mempoolMode, err := component.ParseExecutionMode(v.GetString(MempoolModeKey))
	if err != nil {
		return Config{}, err
	}
	l1ProviderMode, err := component.ParseExecutionMode(v.GetString(L1ProviderModeKey))
	if err != nil {
		return Config{}, err
	}

	return Config{
		LogLevel: v.GetString(LogLevelKey),

		MempoolMode:              mempoolMode,
		MempoolQueueSize:         v.GetInt(MempoolQueueSizeKey),
		MempoolGasPriceThreshold: v.GetUint64(MempoolGasPriceThreshold),

		L1ProviderMode:              l1ProviderMode,
		L1ProviderQueueSize:         v.GetInt(L1ProviderQueueSizeKey),
		L1ProviderReorgLookback:     v.GetDuration(L1ProviderReorgLookback),
		L1ProviderCrawlerPollPeriod: v.GetDuration(L1ProviderCrawlerInterval),

		RemoteListenAddr:  v.GetString(RemoteListenAddrKey),
		MetricsListenAddr: v.GetString(MetricsListenAddrKey),
	}, nil
}
