// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package component

import (
	"context"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

// RemoteEchoArgs and RemoteEchoReply are exported because gorilla/rpc only
// registers service methods whose argument and reply types are exported.
type RemoteEchoArgs struct{ N int }
type RemoteEchoReply struct{ N int }

func TestRemoteServerClientRoundTrip(t *testing.T) {
	handler := HandlerFunc[RemoteEchoArgs, RemoteEchoReply](func(ctx context.Context, req RemoteEchoArgs) (RemoteEchoReply, error) {
		return RemoteEchoReply{N: req.N + 1}, nil
	})
	local := NewLocalServer[RemoteEchoArgs, RemoteEchoReply](nil, "echo", handler, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go local.Start(ctx)

	remoteServer, err := NewRemoteServer[RemoteEchoArgs, RemoteEchoReply]("Echo", local.NewClient())
	require.NoError(t, err)

	httpServer := httptest.NewServer(remoteServer.Handler())
	defer httpServer.Close()

	uri, err := url.Parse(httpServer.URL)
	require.NoError(t, err)

	remoteClient := NewRemoteClient[RemoteEchoArgs, RemoteEchoReply](uri, "Echo")
	reply, err := remoteClient.Send(context.Background(), RemoteEchoArgs{N: 41})
	require.NoError(t, err)
	require.Equal(t, 42, reply.N)
}
