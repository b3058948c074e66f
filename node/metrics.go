// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"net/http"

	gethmetrics "github.com/luxfi/geth/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luxfi/sequencer-core/metrics/prometheus"
)

// metricsHandler bridges every gauge and counter registered against
// go-ethereum-style metrics.DefaultRegistry — the mempool's gas-price
// threshold and proposed-set size gauges, the P2P header marker/latency
// gauges, and each LocalServer's queue-depth gauge — into a Prometheus
// scrape endpoint.
func metricsHandler() http.Handler {
	gatherer := prometheus.NewGatherer(gethmetrics.DefaultRegistry)
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
