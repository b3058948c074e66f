// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package p2psync

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxfi/log"
)

// PeerResponseSource is the peer's end of a single data stream: Next
// blocks until the peer sends the next item, signals Fin (ok == false,
// err == nil) to mean "no more data right now", or fails.
type PeerResponseSource[T BlockData] interface {
	Next(ctx context.Context) (data T, ok bool, err error)
}

// PeerSource opens a fresh PeerResponseSource, typically against a newly
// chosen peer, each time the current stream is dropped.
type PeerSource[T BlockData] interface {
	NewResponseSource(ctx context.Context) (PeerResponseSource[T], error)
}

// DataStreamBuilder is the generic per-kind sync driver: it knows how to
// describe itself, how far ahead of storage it may run, how to validate
// and unpack one peer response into a BlockData, and where to resume
// from on (re)start.
type DataStreamBuilder[T BlockData] interface {
	// TypeDescription names the data kind for logging and errors, e.g.
	// "headers" or "transactions".
	TypeDescription() string
	// BlockNumberLimit reports whether this stream may run ahead of
	// storage without bound, or only up to the header marker.
	BlockNumberLimit() BlockNumberLimit
	// ParseDataForBlock reads and validates exactly one peer response
	// for blockNumber. fin == true means the peer has no more data to
	// offer right now (not an error); the stream stops cleanly.
	ParseDataForBlock(ctx context.Context, source PeerResponseSource[T], blockNumber uint64, reader StorageReader) (data T, fin bool, err error)
	// GetStartBlockNumber returns the block number this stream should
	// (re)start from, read from storage.
	GetStartBlockNumber(reader StorageReader) (uint64, error)
}

// Run drives builder against a single peer response source starting
// from storage's recorded position, writing every validated item to
// storage, until the peer signals Fin, the stream catches up to its
// BlockNumberLimit bound, or an error occurs. A BadPeerError or
// ErrNetworkTimeout returned here means the caller should drop source
// and retry against a different peer; any other error is a storage
// failure and is fatal.
func Run[T BlockData](ctx context.Context, builder DataStreamBuilder[T], reader StorageReader, writer BlockWriter, source PeerResponseSource[T]) error {
	blockNumber, err := builder.GetStartBlockNumber(reader)
	if err != nil {
		return fmt.Errorf("%s: storage: %w", builder.TypeDescription(), err)
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if builder.BlockNumberLimit() == BoundedByHeaderMarker {
			marker, err := reader.HeaderMarker()
			if err != nil {
				return fmt.Errorf("%s: storage: %w", builder.TypeDescription(), err)
			}
			if blockNumber >= marker {
				return nil
			}
		}

		data, fin, err := builder.ParseDataForBlock(ctx, source, blockNumber, reader)
		if err != nil {
			return err
		}
		if fin {
			return nil
		}

		if err := data.WriteToStorage(writer); err != nil {
			return fmt.Errorf("%s: storage: %w", builder.TypeDescription(), err)
		}
		blockNumber++
	}
}

// RunStream is the stream's full lifecycle: it repeatedly opens a fresh
// PeerResponseSource and drives Run against it, dropping and resyncing
// from a different peer whenever Run reports a BadPeerError or a
// network timeout. Any other error is treated as a storage failure and
// returned to the caller, which aborts the node — mirroring spec.md
// §4.7's "storage error: node aborts" lifecycle rule.
func RunStream[T BlockData](ctx context.Context, logger log.Logger, builder DataStreamBuilder[T], reader StorageReader, writer BlockWriter, peers PeerSource[T]) error {
	if logger == nil {
		logger = log.Root()
	}
	for {
		source, err := peers.NewResponseSource(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%s: %w", builder.TypeDescription(), err)
		}

		err = Run(ctx, builder, reader, writer, source)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var badPeer BadPeerError
		if errors.As(err, &badPeer) || errors.Is(err, ErrNetworkTimeout) {
			logger.Warn("dropping peer stream, resyncing", "type", builder.TypeDescription(), "err", err)
			continue
		}
		return err
	}
}
