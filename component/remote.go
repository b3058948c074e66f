// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package component

import (
	"context"
	"net/http"
	"net/url"

	gorpc "github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"

	ourrpc "github.com/luxfi/sequencer-core/utils/rpc"
)

// rpcBridge adapts a LocalClient to the fixed method signature
// gorilla/rpc discovers by reflection: func(*http.Request, *Args, *Reply)
// error. It is the only place in this package that speaks gorilla/rpc's
// calling convention.
type rpcBridge[Req any, Resp any] struct {
	client *LocalClient[Req, Resp]
}

// Call is invoked by gorilla/rpc for every incoming "<Service>.Call"
// request. The HTTP request's context bounds the wait on the LocalClient,
// so a client disconnecting unblocks this call; the component's handler
// itself runs to completion under the LocalServer's own context.
func (b *rpcBridge[Req, Resp]) Call(r *http.Request, args *Req, reply *Resp) error {
	resp, err := b.client.Send(r.Context(), *args)
	if err != nil {
		return err
	}
	*reply = resp
	return nil
}

// RemoteServer exposes a component's LocalClient over JSON-RPC 2.0 HTTP,
// using the same wire codec (gorilla/rpc/v2/json2) the teacher's
// utils/rpc client speaks, so a RemoteClient in this package can talk to
// it without a bespoke protocol.
type RemoteServer[Req any, Resp any] struct {
	name   string
	server *gorpc.Server
}

// NewRemoteServer registers client under serviceName on a fresh
// gorilla/rpc server using the JSON-RPC 2.0 codec.
func NewRemoteServer[Req any, Resp any](serviceName string, client *LocalClient[Req, Resp]) (*RemoteServer[Req, Resp], error) {
	s := gorpc.NewServer()
	s.RegisterCodec(json2.NewCodec(), "application/json")
	if err := s.RegisterService(&rpcBridge[Req, Resp]{client: client}, serviceName); err != nil {
		return nil, err
	}
	return &RemoteServer[Req, Resp]{name: serviceName, server: s}, nil
}

// Handler returns the http.Handler to mount for this component's remote
// endpoint.
func (s *RemoteServer[Req, Resp]) Handler() http.Handler {
	return s.server
}

// RemoteClient calls a RemoteServer over HTTP using
// utils/rpc.SendJSONRequest, grounded directly on the teacher's own
// JSON-RPC client helper.
type RemoteClient[Req any, Resp any] struct {
	uri    *url.URL
	method string
}

var _ Client[struct{}, struct{}] = (*RemoteClient[struct{}, struct{}])(nil)

// NewRemoteClient returns a client that calls serviceName's "Call" method
// at uri.
func NewRemoteClient[Req any, Resp any](uri *url.URL, serviceName string) *RemoteClient[Req, Resp] {
	return &RemoteClient[Req, Resp]{uri: uri, method: serviceName + ".Call"}
}

// Send issues req as a JSON-RPC 2.0 request and decodes the reply.
func (c *RemoteClient[Req, Resp]) Send(ctx context.Context, req Req) (Resp, error) {
	var out Resp
	uri := *c.uri
	err := ourrpc.SendJSONRequest(ctx, &uri, c.method, &req, &out)
	return out, err
}
