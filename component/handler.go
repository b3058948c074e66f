// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package component provides the uniform request/response server
// framework every stateful subsystem in this node is wrapped in: a single
// async (here, goroutine-based) HandleRequest operation, fronted by one of
// three server variants chosen by an ExecutionMode, with paired clients
// that hide whether the call stays in-process or crosses the network.
package component

import "context"

// Handler is the single operation every component exposes. Req and Resp
// are concrete per component (for example node's MempoolRequest /
// MempoolResponse, or L1ProviderRequest / L1ProviderResponse).
type Handler[Req any, Resp any] interface {
	HandleRequest(ctx context.Context, req Req) (Resp, error)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc[Req any, Resp any] func(ctx context.Context, req Req) (Resp, error)

func (f HandlerFunc[Req, Resp]) HandleRequest(ctx context.Context, req Req) (Resp, error) {
	return f(ctx, req)
}

// Client is what callers hold regardless of whether the component they're
// talking to runs in-process (LocalClient) or across the network
// (RemoteClient).
type Client[Req any, Resp any] interface {
	Send(ctx context.Context, req Req) (Resp, error)
}
