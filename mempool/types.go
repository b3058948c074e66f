// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package mempool implements the sequencer's nonce-aware, per-account
// transaction pool: admission, tip-ordered eligibility, and the
// rewind-on-commit bookkeeping that keeps pending transactions consistent
// with the chain the sequencer is proposing against.
package mempool

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Address identifies a transaction sender.
type Address = common.Address

// Hash identifies a transaction by content.
type Hash = common.Hash

// ResourceBounds carries the resource price ceiling a sender attached to a
// transaction. Only the L2 gas price ceiling is carried; it gates proposal
// eligibility through the PartitionManager, not admission.
type ResourceBounds struct {
	MaxL2GasPrice *uint256.Int
}

// Transaction is the mempool's view of a submitted transaction. It carries
// just enough of the real transaction envelope for admission, ordering and
// gas-price gating; callers that need the full transaction body look it up
// by Hash in their own store.
type Transaction struct {
	Sender   Address
	Nonce    uint64
	Hash     Hash
	Tip      uint64
	Resource ResourceBounds
}

// AccountState is the admitter's view of a sender's on-chain nonce,
// delivered alongside every submission so the pool can reject stale
// resubmissions without consulting external state itself.
type AccountState struct {
	Address Address
	Nonce   uint64
}

// AddTransactionArgs bundles a transaction with the account state the
// gateway observed when it validated the transaction.
type AddTransactionArgs struct {
	Tx           Transaction
	AccountState AccountState
}

// CommitBlockArgs reports, for each sender that appeared in a committed
// block, the sender's new account nonce and the set of transaction hashes
// that were actually included on L2.
type CommitBlockArgs struct {
	Nonces   map[Address]uint64
	TxHashes map[Hash]struct{}
}
