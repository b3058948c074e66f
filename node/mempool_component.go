// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"context"
	"fmt"

	"github.com/luxfi/sequencer-core/mempool"
)

// MempoolRequestKind discriminates which mempool operation a
// MempoolRequest carries.
type MempoolRequestKind int

const (
	MempoolAddTx MempoolRequestKind = iota
	MempoolGetTxs
	MempoolCommitBlock
	MempoolRewind
)

// MempoolRequest is the sum-of-payloads every mempool operation is
// wrapped in before crossing a component.LocalServer/RemoteServer
// boundary — the Go counterpart of the Rust node's
// MempoolRequestAndResponseSender enum channel. It is a concrete struct
// rather than an interface-of-cases: component.RemoteServer serializes
// Req with encoding/json (via gorilla/rpc's json2 codec), and Go's
// encoding/json cannot unmarshal a closed interface, only a concrete
// type, so only one field below is populated per Kind.
type MempoolRequest struct {
	Kind MempoolRequestKind

	AddTxArgs       mempool.AddTransactionArgs `json:",omitempty"`
	GetTxsN         int                        `json:",omitempty"`
	CommitBlockArgs mempool.CommitBlockArgs    `json:",omitempty"`
	RewindSender    mempool.Address            `json:",omitempty"`
}

// AddTxRequest builds the request for Mempool.AddTx.
func AddTxRequest(args mempool.AddTransactionArgs) MempoolRequest {
	return MempoolRequest{Kind: MempoolAddTx, AddTxArgs: args}
}

// GetTxsRequest builds the request for Mempool.GetTxs.
func GetTxsRequest(n int) MempoolRequest {
	return MempoolRequest{Kind: MempoolGetTxs, GetTxsN: n}
}

// CommitBlockRequest builds the request for Mempool.CommitBlock.
func CommitBlockRequest(args mempool.CommitBlockArgs) MempoolRequest {
	return MempoolRequest{Kind: MempoolCommitBlock, CommitBlockArgs: args}
}

// RewindRequest builds the request for Mempool.Rewind.
func RewindRequest(sender mempool.Address) MempoolRequest {
	return MempoolRequest{Kind: MempoolRewind, RewindSender: sender}
}

// MempoolResponse is the corresponding sum-of-results: only one field is
// meaningful per request kind, the rest are zero.
type MempoolResponse struct {
	Txs []mempool.Transaction `json:",omitempty"`
}

// mempoolHandler adapts mempool.Mempool's typed method set onto
// component.Handler so it can be served behind a LocalServer/RemoteServer
// pair exactly like any other component.
type mempoolHandler struct {
	pool *mempool.Mempool
}

func (h *mempoolHandler) HandleRequest(ctx context.Context, req MempoolRequest) (MempoolResponse, error) {
	switch req.Kind {
	case MempoolAddTx:
		return MempoolResponse{}, h.pool.AddTx(ctx, req.AddTxArgs)
	case MempoolGetTxs:
		txs, err := h.pool.GetTxs(ctx, req.GetTxsN)
		return MempoolResponse{Txs: txs}, err
	case MempoolCommitBlock:
		return MempoolResponse{}, h.pool.CommitBlock(ctx, req.CommitBlockArgs)
	case MempoolRewind:
		return MempoolResponse{}, h.pool.Rewind(ctx, req.RewindSender)
	default:
		return MempoolResponse{}, fmt.Errorf("node: unknown mempool request kind %d", req.Kind)
	}
}
