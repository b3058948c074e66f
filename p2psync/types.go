// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package p2psync builds per-block-data P2P ingestion streams: a generic
// DataStreamBuilder walks increasing block numbers, pulls one item per
// block from a peer, validates it, and writes it to storage, the way
// header/state-diff/transaction/class sync in a Starknet-style node all
// share one shape but differ in validation and storage target.
package p2psync

import "github.com/ethereum/go-ethereum/common"

// Hash identifies a block or a transaction.
type Hash = common.Hash

// BlockNumberLimit controls how far ahead of storage a stream is allowed
// to run. Header sync has no limit: it is the leading stream. Streams for
// data that references a block (transactions, state diffs, classes) must
// not race ahead of the header marker, since they need the header's
// commitments to validate what they receive.
type BlockNumberLimit int

const (
	// Unlimited lets the stream request any block number storage has not
	// yet stored, regardless of other streams' progress.
	Unlimited BlockNumberLimit = iota
	// BoundedByHeaderMarker caps the stream at the current header marker:
	// it will not request a block number storage has not yet seen a
	// header for.
	BoundedByHeaderMarker
)

// BlockHeader is the subset of header fields this module's sync streams
// need: enough to order blocks, check continuity, and compute latency.
type BlockHeader struct {
	Number     uint64
	ParentHash Hash
	Timestamp  uint64 // unix seconds
}

// Transaction is a block-body transaction as delivered over the P2P
// transactions stream, distinct from mempool.Transaction and
// l1provider.Transaction: it carries only what's needed to append it to
// storage under its containing block.
type Transaction struct {
	Hash    Hash
	Payload []byte
}

// HeaderWriter is the storage capability the header stream needs to
// persist what it receives.
type HeaderWriter interface {
	AppendHeader(number uint64, header BlockHeader) error
	AppendBlockSignature(number uint64, signature []byte) error
}

// HeaderReader is the storage capability consulted for the header
// stream's own start position and as the bound for later streams.
type HeaderReader interface {
	HeaderMarker() (uint64, error)
}

// TransactionsWriter is the storage capability the transactions stream
// needs to persist what it receives.
type TransactionsWriter interface {
	AppendBlockTransactions(number uint64, txs []Transaction) error
}

// TransactionsReader is the storage capability consulted for the
// transactions stream's own start position.
type TransactionsReader interface {
	TransactionsMarker() (uint64, error)
}

// StorageReader composes every stream's read capability into one type,
// the way sync/handlers.SyncDataProvider in the teacher repo composes
// BlockProvider and SnapshotProvider rather than exposing one monolithic
// storage interface.
type StorageReader interface {
	HeaderReader
	TransactionsReader
}

// BlockWriter composes every stream's write capability the same way.
type BlockWriter interface {
	HeaderWriter
	TransactionsWriter
}

// BlockData is the payload a single DataStreamBuilder round produces:
// header, state diff, transactions, or class, each knowing how to append
// itself to storage.
type BlockData interface {
	WriteToStorage(writer BlockWriter) error
}
