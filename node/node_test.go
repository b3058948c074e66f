// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/sequencer-core/component"
	"github.com/luxfi/sequencer-core/mempool"
)

func testConfig() Config {
	cfg := Config{}
	v, err := BuildViper(BuildFlagSet(), nil)
	if err != nil {
		panic(err)
	}
	cfg, err = BuildConfig(v)
	if err != nil {
		panic(err)
	}
	cfg.MempoolMode = component.LocalExecutionWithRemoteDisabled
	cfg.L1ProviderMode = component.LocalExecutionWithRemoteDisabled
	return cfg
}

func TestNodeWiresLocalClientsAndServesRequests(t *testing.T) {
	n, err := New(nil, testConfig(), nil, nil)
	require.NoError(t, err)
	defer n.Close()

	require.NotNil(t, n.MempoolClient())
	require.NotNil(t, n.L1ProviderClient())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runDone := make(chan error, 1)
	go func() { runDone <- n.Run(ctx) }()

	sender := mempool.Address{0x01}
	_, err = n.MempoolClient().Send(context.Background(), AddTxRequest(mempool.AddTransactionArgs{
		Tx:           mempool.Transaction{Sender: sender, Nonce: 0, Hash: mempool.Hash{0x01}},
		AccountState: mempool.AccountState{Address: sender, Nonce: 0},
	}))
	require.NoError(t, err)

	resp, err := n.MempoolClient().Send(context.Background(), GetTxsRequest(1))
	require.NoError(t, err)
	require.Len(t, resp.Txs, 1)

	_, err = n.L1ProviderClient().Send(context.Background(), ProposalStartRequest())
	require.NoError(t, err)

	cancel()
	select {
	case <-runDone:
	case <-time.After(time.Second):
		t.Fatal("node.Run did not stop after context cancellation")
	}
}

func TestNodeOmitsClientsWhenComponentDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.MempoolMode = component.Disabled
	cfg.L1ProviderMode = component.Disabled

	n, err := New(nil, cfg, nil, nil)
	require.NoError(t, err)
	defer n.Close()

	require.Nil(t, n.MempoolClient())
	require.Nil(t, n.L1ProviderClient())
}
