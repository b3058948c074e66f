// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package component

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type echoArgs struct{ N int }
type echoReply struct{ N int }

func TestLocalServerRoundTrip(t *testing.T) {
	handler := HandlerFunc[echoArgs, echoReply](func(ctx context.Context, req echoArgs) (echoReply, error) {
		return echoReply{N: req.N * 2}, nil
	})
	server := NewLocalServer[echoArgs, echoReply](nil, "echo", handler, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.Start(ctx)

	client := server.NewClient()
	reply, err := client.Send(context.Background(), echoArgs{N: 21})
	require.NoError(t, err)
	require.Equal(t, 42, reply.N)
}

func TestLocalServerPropagatesHandlerError(t *testing.T) {
	wantErr := errors.New("boom")
	handler := HandlerFunc[echoArgs, echoReply](func(ctx context.Context, req echoArgs) (echoReply, error) {
		return echoReply{}, wantErr
	})
	server := NewLocalServer[echoArgs, echoReply](nil, "echo", handler, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.Start(ctx)

	_, err := server.NewClient().Send(context.Background(), echoArgs{})
	require.ErrorIs(t, err, wantErr)
}

func TestLocalClientCancelledContextDoesNotBlockServer(t *testing.T) {
	block := make(chan struct{})
	handler := HandlerFunc[echoArgs, echoReply](func(ctx context.Context, req echoArgs) (echoReply, error) {
		<-block
		return echoReply{N: req.N}, nil
	})
	server := NewLocalServer[echoArgs, echoReply](nil, "echo", handler, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.Start(ctx)

	clientCtx, clientCancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer clientCancel()
	_, err := server.NewClient().Send(clientCtx, echoArgs{N: 1})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(block)

	reply, err := server.NewClient().Send(context.Background(), echoArgs{N: 7})
	require.NoError(t, err)
	require.Equal(t, 7, reply.N)
}

func TestExecutionModeHelpers(t *testing.T) {
	require.False(t, Disabled.RunsLocalServer())
	require.True(t, LocalExecutionWithRemoteDisabled.RunsLocalServer())
	require.False(t, LocalExecutionWithRemoteDisabled.RunsRemoteServer())
	require.True(t, LocalExecutionWithRemoteEnabled.RunsLocalServer())
	require.True(t, LocalExecutionWithRemoteEnabled.RunsRemoteServer())
	require.False(t, Remote.RunsLocalServer())
}
