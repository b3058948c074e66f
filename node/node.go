// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package node wires the mempool and L1 provider components, their
// component-server framework servers, and a metrics endpoint together
// into a single supervised process, the way
// starknet_sequencer_node::servers assembles a SequencerNode from its
// three server groups.
package node

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/holiman/uint256"
	"github.com/luxfi/log"

	"github.com/luxfi/sequencer-core/component"
	"github.com/luxfi/sequencer-core/l1provider"
	"github.com/luxfi/sequencer-core/mempool"
)

// Node owns the long-lived component instances and the HTTP mux any of
// their remote servers are mounted on, plus the Supervisor that runs
// everything as one process.
type Node struct {
	log log.Logger
	cfg Config

	Mempool    *mempool.Mempool
	L1Provider *l1provider.Provider

	mempoolClient    *component.LocalClient[MempoolRequest, MempoolResponse]
	l1ProviderClient *component.LocalClient[L1ProviderRequest, L1ProviderResponse]

	mux        *http.ServeMux
	supervisor *component.Supervisor
}

// New builds a Node from cfg: it always constructs the Mempool and L1
// Provider themselves (their internal goroutines run regardless of
// ExecutionMode, matching the Rust node's pattern of always owning the
// component's state and only varying how it's exposed), then wires
// local/remote component servers according to cfg's execution modes.
// cursor may be nil if L1 reorg rewinding isn't wired to a concrete
// source yet.
func New(logger log.Logger, cfg Config, gasPriceThreshold *uint256.Int, cursor l1provider.RewindCursor) (*Node, error) {
	if logger == nil {
		logger = log.Root()
	}

	n := &Node{
		log:        logger,
		cfg:        cfg,
		Mempool:    mempool.New(logger, gasPriceThreshold),
		L1Provider: l1provider.New(logger, cursor, cfg.L1ProviderReorgLookback),
		mux:        http.NewServeMux(),
		supervisor: component.NewSupervisor(logger),
	}

	if err := n.wireMempool(); err != nil {
		return nil, fmt.Errorf("node: wiring mempool: %w", err)
	}
	if err := n.wireL1Provider(); err != nil {
		return nil, fmt.Errorf("node: wiring L1 provider: %w", err)
	}

	return n, nil
}

func (n *Node) wireMempool() error {
	if !n.cfg.MempoolMode.RunsLocalServer() {
		return nil
	}
	handler := &mempoolHandler{pool: n.Mempool}
	queueSize := n.cfg.MempoolQueueSize
	if queueSize <= 0 {
		queueSize = component.DefaultInvocationsQueueSize
	}
	local := component.NewLocalServer[MempoolRequest, MempoolResponse](n.log, "mempool", handler, queueSize)
	n.mempoolClient = local.NewClient()
	n.supervisor.Register("mempool-local", local)

	if n.cfg.MempoolMode.RunsRemoteServer() {
		remote, err := component.NewRemoteServer[MempoolRequest, MempoolResponse]("Mempool", n.mempoolClient)
		if err != nil {
			return err
		}
		n.mux.Handle("/rpc/mempool", remote.Handler())
	}
	return nil
}

func (n *Node) wireL1Provider() error {
	if !n.cfg.L1ProviderMode.RunsLocalServer() {
		return nil
	}
	handler := &l1ProviderHandler{provider: n.L1Provider}
	queueSize := n.cfg.L1ProviderQueueSize
	if queueSize <= 0 {
		queueSize = component.DefaultInvocationsQueueSize
	}
	local := component.NewLocalServer[L1ProviderRequest, L1ProviderResponse](n.log, "l1-provider", handler, queueSize)
	n.l1ProviderClient = local.NewClient()
	n.supervisor.Register("l1-provider-local", local)

	if n.cfg.L1ProviderMode.RunsRemoteServer() {
		remote, err := component.NewRemoteServer[L1ProviderRequest, L1ProviderResponse]("L1Provider", n.l1ProviderClient)
		if err != nil {
			return err
		}
		n.mux.Handle("/rpc/l1-provider", remote.Handler())
	}
	return nil
}

// MempoolClient returns the in-process client for the mempool component,
// or nil if cfg.MempoolMode doesn't run a local server on this node.
func (n *Node) MempoolClient() *component.LocalClient[MempoolRequest, MempoolResponse] {
	return n.mempoolClient
}

// L1ProviderClient returns the in-process client for the L1 provider
// component, or nil if cfg.L1ProviderMode doesn't run a local server on
// this node.
func (n *Node) L1ProviderClient() *component.LocalClient[L1ProviderRequest, L1ProviderResponse] {
	return n.l1ProviderClient
}

// httpRunnable wraps a net/http.Server so it satisfies component.Runnable
// and can be registered with the Supervisor like any other server.
type httpRunnable struct {
	addr string
	mux  *http.ServeMux
}

func (h *httpRunnable) Start(ctx context.Context) error {
	srv := &http.Server{Addr: h.addr, Handler: h.mux}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Run starts every wired component server and the remote HTTP mux (if
// any component runs with its remote server enabled), and blocks until
// ctx is cancelled or any one of them terminates.
func (n *Node) Run(ctx context.Context) error {
	if n.cfg.MempoolMode.RunsRemoteServer() || n.cfg.L1ProviderMode.RunsRemoteServer() {
		n.supervisor.Register("remote-http", component.NewWrapperServer(
			"remote-http",
			&httpRunnable{addr: n.cfg.RemoteListenAddr, mux: n.mux},
		))
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metricsHandler())
	n.supervisor.Register("monitoring", component.NewWrapperServer(
		"monitoring",
		&httpRunnable{addr: n.cfg.MetricsListenAddr, mux: metricsMux},
	))

	return n.supervisor.Run(ctx)
}

// Close releases the Mempool and L1 Provider worker goroutines. Call
// after Run returns.
func (n *Node) Close() {
	n.Mempool.Close()
	n.L1Provider.Close()
}
