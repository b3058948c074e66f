// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package component

import (
	"context"
	"fmt"

	"github.com/luxfi/log"
	"golang.org/x/sync/errgroup"
)

// Server is anything Supervisor can run and await: LocalServer,
// net/http-backed remote listeners, and WrapperServer all satisfy it.
type Server interface {
	Start(ctx context.Context) error
}

// Supervisor runs every registered server as its own goroutine and treats
// the first one to return as fatal, mirroring the Rust original's
// run_component_servers: a FuturesUnordered of server futures where any
// single completion ends the whole node. It makes no distinction between
// local, remote, and wrapper servers — the node builds three logical
// groups for clarity, but they are supervised identically, exactly as
// spec.md §4.6 describes.
type Supervisor struct {
	log     log.Logger
	servers map[string]Server
}

// NewSupervisor returns an empty Supervisor.
func NewSupervisor(logger log.Logger) *Supervisor {
	if logger == nil {
		logger = log.Root()
	}
	return &Supervisor{log: logger, servers: make(map[string]Server)}
}

// Register adds srv to the set of servers Run will supervise. name is
// used only for logging.
func (s *Supervisor) Register(name string, srv Server) {
	s.servers[name] = srv
}

// Run starts every registered server and blocks until ctx is cancelled or
// any single server returns, returning that server's error wrapped with
// its component name.
func (s *Supervisor) Run(ctx context.Context) error {
	group, gctx := errgroup.WithContext(ctx)
	for name, srv := range s.servers {
		name, srv := name, srv
		group.Go(func() error {
			err := srv.Start(gctx)
			if err == nil {
				err = fmt.Errorf("server stopped")
			}
			s.log.Error("component server stopped", "component", name, "err", err)
			return fmt.Errorf("%s: %w", name, err)
		})
	}
	return group.Wait()
}
