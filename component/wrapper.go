// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package component

import "context"

// Runnable is implemented by any long-running component wrapped as a
// WrapperServer: consensus managers, HTTP gateways, monitoring endpoints,
// and the P2P sync runner all expose this shape instead of a
// request/response handler.
type Runnable interface {
	Start(ctx context.Context) error
}

// WrapperServer supervises a Runnable identically to how LocalServer and
// RemoteServer are supervised: Start blocks until the wrapped Runnable
// returns, whether because ctx was cancelled or because the Runnable
// itself failed.
type WrapperServer struct {
	name     string
	runnable Runnable
}

// NewWrapperServer wraps runnable for uniform supervision under name.
func NewWrapperServer(name string, runnable Runnable) *WrapperServer {
	return &WrapperServer{name: name, runnable: runnable}
}

// Start delegates to the wrapped Runnable.
func (w *WrapperServer) Start(ctx context.Context) error {
	return w.runnable.Start(ctx)
}

// Name returns the component name this server was registered under.
func (w *WrapperServer) Name() string {
	return w.name
}
