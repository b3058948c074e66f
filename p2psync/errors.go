// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package p2psync

import (
	"errors"
	"fmt"
)

// ErrNetworkTimeout is returned when a peer does not deliver the next
// item within the configured network data timeout. It is not the peer's
// fault in the BadPeer sense — it classifies as a dropped stream that
// should be retried against a (possibly different) peer, not a node
// abort.
var ErrNetworkTimeout = errors.New("network data timeout")

// ErrReceiverChannelTerminated is returned when the peer response source
// closes before sending a Fin marker.
var ErrReceiverChannelTerminated = errors.New("receiver channel terminated")

// BadPeerError is implemented by every error a stream builder returns
// when the data itself, not the transport, is at fault: the sending peer
// violated the protocol and the stream should be dropped and resumed
// against a different peer.
type BadPeerError interface {
	error
	badPeer()
}

// HeadersUnorderedError is returned when a peer sends a header for a
// block number other than the one currently being requested.
type HeadersUnorderedError struct {
	Expected uint64
	Actual   uint64
}

func (e *HeadersUnorderedError) Error() string {
	return fmt.Sprintf("headers unordered: expected block %d, got %d", e.Expected, e.Actual)
}

func (*HeadersUnorderedError) badPeer() {}

// WrongSignaturesLengthError is returned when a peer attaches a number
// of signatures other than AllowedSignaturesLength to a block header.
type WrongSignaturesLengthError struct {
	Got int
}

func (e *WrongSignaturesLengthError) Error() string {
	return fmt.Sprintf("wrong signatures length: expected %d, got %d", AllowedSignaturesLength, e.Got)
}

func (*WrongSignaturesLengthError) badPeer() {}

// TransactionsUnorderedError is returned when a peer sends a block's
// transactions out of block-number order on the transactions stream.
type TransactionsUnorderedError struct {
	Expected uint64
	Actual   uint64
}

func (e *TransactionsUnorderedError) Error() string {
	return fmt.Sprintf("transactions unordered: expected block %d, got %d", e.Expected, e.Actual)
}

func (*TransactionsUnorderedError) badPeer() {}

var (
	_ BadPeerError = (*HeadersUnorderedError)(nil)
	_ BadPeerError = (*WrongSignaturesLengthError)(nil)
	_ BadPeerError = (*TransactionsUnorderedError)(nil)
)
