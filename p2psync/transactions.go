// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package p2psync

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxfi/geth/metrics"
)

const transactionsMarkerMetric = "p2psync/transactions_marker"

// BlockTransactions is one transactions-stream item: every transaction
// belonging to a single block, delivered together.
type BlockTransactions struct {
	Number uint64
	Txs    []Transaction
}

// WriteToStorage appends the block's transactions and advances the
// transactions marker gauge.
func (b BlockTransactions) WriteToStorage(writer BlockWriter) error {
	if err := writer.AppendBlockTransactions(b.Number, b.Txs); err != nil {
		return err
	}
	if metrics.Enabled() {
		metrics.GetOrRegisterGauge(transactionsMarkerMetric, nil).Update(int64(b.Number + 1))
	}
	return nil
}

// TransactionsStreamBuilder drives the transactions sync stream. Unlike
// headers it must not race ahead of the header marker: a block's
// transactions can only be validated against commitments carried in its
// header, so BlockNumberLimit is BoundedByHeaderMarker.
type TransactionsStreamBuilder struct{}

var _ DataStreamBuilder[BlockTransactions] = TransactionsStreamBuilder{}

func (TransactionsStreamBuilder) TypeDescription() string { return "transactions" }

func (TransactionsStreamBuilder) BlockNumberLimit() BlockNumberLimit {
	return BoundedByHeaderMarker
}

func (TransactionsStreamBuilder) ParseDataForBlock(
	ctx context.Context,
	source PeerResponseSource[BlockTransactions],
	blockNumber uint64,
	_ StorageReader,
) (BlockTransactions, bool, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, NetworkDataTimeout)
	defer cancel()

	body, ok, err := source.Next(timeoutCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return BlockTransactions{}, false, fmt.Errorf("%w: transactions", ErrNetworkTimeout)
		}
		return BlockTransactions{}, false, fmt.Errorf("%w: transactions: %s", ErrReceiverChannelTerminated, err)
	}
	if !ok {
		return BlockTransactions{}, true, nil
	}

	if body.Number != blockNumber {
		return BlockTransactions{}, false, &TransactionsUnorderedError{Expected: blockNumber, Actual: body.Number}
	}
	return body, false, nil
}

func (TransactionsStreamBuilder) GetStartBlockNumber(reader StorageReader) (uint64, error) {
	return reader.TransactionsMarker()
}
