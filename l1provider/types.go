// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package l1provider implements the sequencer's Pending/Propose/Validate
// coordinator for L1-originated handler transactions: transactions are not
// nonce-ordered (L1 event ordering is implicit), so the provider tracks
// them FIFO rather than per-account, and gates every operation on which
// consensus phase is currently active.
package l1provider

import "github.com/ethereum/go-ethereum/common"

// Hash identifies an L1 handler transaction by content.
type Hash = common.Hash

// Transaction is an L1-originated handler transaction. It is never
// rejected for nonce reasons: its ordering is whatever order the crawler
// observed it on L1.
type Transaction struct {
	Hash    Hash
	Payload []byte
}

// ValidationStatus classifies the result of validating a transaction hash
// proposed by another node.
type ValidationStatus int

const (
	// ConsumedOnL1OrUnknown is returned for a hash the provider has no
	// record of, or one it already knows was consumed on L1.
	ConsumedOnL1OrUnknown ValidationStatus = iota
	// Validated means the hash is still present in the pending pool.
	Validated
	// AlreadyIncludedOnL2 means the hash was already moved onto L2 and
	// is now only awaiting L1 consumption.
	AlreadyIncludedOnL2
)

func (s ValidationStatus) String() string {
	switch s {
	case Validated:
		return "Validated"
	case AlreadyIncludedOnL2:
		return "AlreadyIncludedOnL2"
	default:
		return "ConsumedOnL1OrUnknown"
	}
}

// CommitBlockArgs reports the L1 handler transaction hashes a just
// committed block actually included.
type CommitBlockArgs struct {
	CommittedTxHashes map[Hash]struct{}
}
