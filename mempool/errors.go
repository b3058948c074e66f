// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mempool

import (
	"errors"
	"fmt"
)

// Sentinel errors so callers can classify a rejection with errors.Is
// without type-asserting the concrete error.
var (
	ErrNonceTooOld    = errors.New("mempool: nonce too old")
	ErrDuplicateNonce = errors.New("mempool: duplicate nonce")
	ErrDuplicateHash  = errors.New("mempool: duplicate transaction hash")
)

// NonceTooOldError reports that a submitted nonce is below the sender's
// admission floor: the highest of its committed nonce, the account nonce
// the gateway reported, and one past any nonce already handed out by
// GetTxs for the current proposal.
type NonceTooOldError struct {
	Sender Address
	Nonce  uint64
}

func (e *NonceTooOldError) Error() string {
	return fmt.Sprintf("mempool: nonce %d too old for sender %s", e.Nonce, e.Sender)
}

func (e *NonceTooOldError) Unwrap() error { return ErrNonceTooOld }

// DuplicateNonceError reports that a different transaction already
// occupies (sender, nonce) in the pool.
type DuplicateNonceError struct {
	Sender Address
	Nonce  uint64
}

func (e *DuplicateNonceError) Error() string {
	return fmt.Sprintf("mempool: nonce %d for sender %s already occupied by a different transaction", e.Nonce, e.Sender)
}

func (e *DuplicateNonceError) Unwrap() error { return ErrDuplicateNonce }

// DuplicateHashError reports that the exact transaction hash is already
// present in the pool, regardless of sender or nonce.
type DuplicateHashError struct {
	Hash Hash
}

func (e *DuplicateHashError) Error() string {
	return fmt.Sprintf("mempool: transaction %s already present", e.Hash)
}

func (e *DuplicateHashError) Unwrap() error { return ErrDuplicateHash }
