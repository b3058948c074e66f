// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/sequencer-core/l1provider"
	"github.com/luxfi/sequencer-core/mempool"
)

// MempoolRequest and L1ProviderRequest cross component.RemoteServer's
// JSON-RPC boundary via plain encoding/json, unlike the closed-interface
// request shape a Go sum type would need: an interface value can't be
// round-tripped by encoding/json without already knowing its concrete
// type, which the wire codec doesn't. These tests pin that contract down.
func TestMempoolRequestJSONRoundTrip(t *testing.T) {
	sender := mempool.Address{0x01}
	want := AddTxRequest(mempool.AddTransactionArgs{
		Tx:           mempool.Transaction{Sender: sender, Nonce: 3, Hash: mempool.Hash{0x02}},
		AccountState: mempool.AccountState{Address: sender, Nonce: 2},
	})

	raw, err := json.Marshal(want)
	require.NoError(t, err)

	var got MempoolRequest
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Equal(t, want, got)
}

func TestL1ProviderRequestJSONRoundTrip(t *testing.T) {
	want := L1CommitBlockRequest(l1provider.CommitBlockArgs{
		CommittedTxHashes: map[l1provider.Hash]struct{}{{0x09}: {}},
	})

	raw, err := json.Marshal(want)
	require.NoError(t, err)

	var got L1ProviderRequest
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Equal(t, want, got)
}
