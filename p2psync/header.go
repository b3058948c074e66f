// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package p2psync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/luxfi/geth/metrics"
)

// AllowedSignaturesLength is the only block-signature count this node's
// sync accepts today. A peer attaching any other number is a protocol
// violation, not a future-compatible variant.
const AllowedSignaturesLength = 1

// NetworkDataTimeout bounds how long the header and transactions streams
// wait for the next item from a peer before treating the stream as
// stalled.
const NetworkDataTimeout = 30 * time.Second

const (
	headerMarkerMetric     = "p2psync/header_marker"
	headerLatencySecMetric = "p2psync/header_latency_seconds"
)

// SignedBlockHeader is one header stream item: a block header together
// with its block signature.
type SignedBlockHeader struct {
	Header     BlockHeader
	Signatures [][]byte
}

// WriteToStorage appends the header and its signature, then publishes
// the header marker and ingestion latency gauges.
func (h SignedBlockHeader) WriteToStorage(writer BlockWriter) error {
	if err := writer.AppendHeader(h.Header.Number, h.Header); err != nil {
		return err
	}
	if err := writer.AppendBlockSignature(h.Header.Number, h.Signatures[0]); err != nil {
		return err
	}

	if metrics.Enabled() {
		metrics.GetOrRegisterGauge(headerMarkerMetric, nil).Update(int64(h.Header.Number + 1))

		latency := time.Now().Unix() - int64(h.Header.Timestamp)
		if latency >= 0 {
			metrics.GetOrRegisterGauge(headerLatencySecMetric, nil).Update(latency)
		}
	}
	return nil
}

// HeaderStreamBuilder drives the leading sync stream: headers carry no
// dependency on any other stream, so they are Unlimited.
type HeaderStreamBuilder struct{}

var _ DataStreamBuilder[SignedBlockHeader] = HeaderStreamBuilder{}

func (HeaderStreamBuilder) TypeDescription() string { return "headers" }

func (HeaderStreamBuilder) BlockNumberLimit() BlockNumberLimit { return Unlimited }

func (HeaderStreamBuilder) ParseDataForBlock(
	ctx context.Context,
	source PeerResponseSource[SignedBlockHeader],
	blockNumber uint64,
	_ StorageReader,
) (SignedBlockHeader, bool, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, NetworkDataTimeout)
	defer cancel()

	header, ok, err := source.Next(timeoutCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return SignedBlockHeader{}, false, fmt.Errorf("%w: headers", ErrNetworkTimeout)
		}
		return SignedBlockHeader{}, false, fmt.Errorf("%w: headers: %s", ErrReceiverChannelTerminated, err)
	}
	if !ok {
		return SignedBlockHeader{}, true, nil
	}

	if header.Header.Number != blockNumber {
		return SignedBlockHeader{}, false, &HeadersUnorderedError{Expected: blockNumber, Actual: header.Header.Number}
	}
	if len(header.Signatures) != AllowedSignaturesLength {
		return SignedBlockHeader{}, false, &WrongSignaturesLengthError{Got: len(header.Signatures)}
	}
	return header, false, nil
}

func (HeaderStreamBuilder) GetStartBlockNumber(reader StorageReader) (uint64, error) {
	return reader.HeaderMarker()
}
