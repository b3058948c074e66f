// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package component

import (
	"context"
	"fmt"

	"github.com/luxfi/geth/metrics"
	"github.com/luxfi/log"
)

// DefaultInvocationsQueueSize bounds the in-process request channel every
// LocalServer serves from, the same default the Rust original's
// component-channel construction uses.
const DefaultInvocationsQueueSize = 32

// queueDepthMetric names the per-component backlog gauge: the number of
// envelopes still waiting on the request channel after the most recent
// dequeue, the same "how far behind is this server" signal
// p2psync's marker gauges publish for its own queues.
func queueDepthMetric(name string) string {
	return fmt.Sprintf("component/%s/queue_depth", name)
}

// envelope carries one request alongside the one-shot reply channel its
// caller is waiting on.
type envelope[Req any, Resp any] struct {
	request Req
	replyCh chan reply[Resp]
}

type reply[Resp any] struct {
	value Resp
	err   error
}

// LocalServer is the in-process request/response loop: a single consumer
// reading envelopes off a bounded channel, invoking the wrapped Handler to
// completion, and delivering the result on the envelope's private reply
// channel. If the caller has stopped waiting (its context was cancelled),
// the reply is dropped silently rather than blocking the server loop —
// the same contract the Rust `request_response_loop`'s
// `let _ = tx.try_send(res)` gives callers.
type LocalServer[Req any, Resp any] struct {
	log     log.Logger
	name    string
	handler Handler[Req, Resp]
	ch      chan envelope[Req, Resp]
}

// NewLocalServer returns a LocalServer wrapping handler, with its request
// channel sized to queueSize (DefaultInvocationsQueueSize if queueSize is
// not positive).
func NewLocalServer[Req any, Resp any](logger log.Logger, name string, handler Handler[Req, Resp], queueSize int) *LocalServer[Req, Resp] {
	if logger == nil {
		logger = log.Root()
	}
	if queueSize <= 0 {
		queueSize = DefaultInvocationsQueueSize
	}
	return &LocalServer[Req, Resp]{
		log:     logger,
		name:    name,
		handler: handler,
		ch:      make(chan envelope[Req, Resp], queueSize),
	}
}

// Start runs the server's request loop until ctx is done.
func (s *LocalServer[Req, Resp]) Start(ctx context.Context) error {
	s.log.Info("component local server started", "component", s.name)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("component local server stopped", "component", s.name)
			return ctx.Err()
		case env := <-s.ch:
			if metrics.Enabled() {
				metrics.GetOrRegisterGauge(queueDepthMetric(s.name), nil).Update(int64(len(s.ch)))
			}
			resp, err := s.handler.HandleRequest(ctx, env.request)
			select {
			case env.replyCh <- reply[Resp]{value: resp, err: err}:
			default:
			}
		}
	}
}

// NewClient returns a LocalClient that submits requests onto this
// server's queue.
func (s *LocalServer[Req, Resp]) NewClient() *LocalClient[Req, Resp] {
	return &LocalClient[Req, Resp]{ch: s.ch}
}

// LocalClient sends requests to a LocalServer's queue and awaits the
// matching reply. It is safe for concurrent use by multiple callers, the
// same multi-producer/single-consumer shape the Rust original's component
// channel gives every caller.
type LocalClient[Req any, Resp any] struct {
	ch chan<- envelope[Req, Resp]
}

var _ Client[struct{}, struct{}] = (*LocalClient[struct{}, struct{}])(nil)

// Send enqueues req and blocks until the server replies or ctx is done.
func (c *LocalClient[Req, Resp]) Send(ctx context.Context, req Req) (Resp, error) {
	replyCh := make(chan reply[Resp], 1)
	env := envelope[Req, Resp]{request: req, replyCh: replyCh}

	select {
	case c.ch <- env:
	case <-ctx.Done():
		var zero Resp
		return zero, ctx.Err()
	}

	select {
	case r := <-replyCh:
		return r.value, r.err
	case <-ctx.Done():
		var zero Resp
		return zero, ctx.Err()
	}
}
