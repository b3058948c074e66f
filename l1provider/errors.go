// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package l1provider

import "errors"

// State-machine errors. All are reported to the caller (consensus) and
// are never fatal to the provider itself; an internal invariant violation
// elsewhere in the process still aborts per the surrounding node's
// failure semantics.
var (
	// ErrUnexpectedProviderStateTransition is returned by ProposalStart
	// or ValidationStart when the provider is not in Pending, and by
	// CommitBlock when it is in Pending.
	ErrUnexpectedProviderStateTransition = errors.New("l1provider: unexpected state transition")

	// ErrGetTransactionsInPendingState is returned by GetTxs when the
	// provider is in Pending.
	ErrGetTransactionsInPendingState = errors.New("l1provider: get_txs called in pending state")

	// ErrGetTransactionConsensusBug is returned by GetTxs when the
	// provider is in Validate: consensus should never ask for
	// transactions to propose while validating another proposer's block.
	ErrGetTransactionConsensusBug = errors.New("l1provider: get_txs called in validate state")

	// ErrValidateInPendingState is returned by Validate when the
	// provider is in Pending.
	ErrValidateInPendingState = errors.New("l1provider: validate called in pending state")

	// ErrValidateTransactionConsensusBug is returned by Validate when
	// the provider is in Propose: consensus should never ask this node
	// to validate a hash while it itself is proposing.
	ErrValidateTransactionConsensusBug = errors.New("l1provider: validate called in propose state")
)
