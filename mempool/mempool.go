// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mempool

import (
	"context"
	"errors"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/metrics"
	"github.com/luxfi/log"
)

// ErrClosed is returned by any Mempool method called after Close.
var ErrClosed = errors.New("mempool: closed")

const (
	gasPriceThresholdMetric = "mempool/gas_price_threshold"
	proposedSetSizeMetric   = "mempool/proposed_set_size"
)

// publishGasPriceThreshold and publishProposedSetSize are called from
// within the worker goroutine after any operation that can change the
// value they report, the same call-site-scoped "update after mutation"
// discipline p2psync's marker/latency gauges follow.
func publishGasPriceThreshold(threshold *uint256.Int) {
	if !metrics.Enabled() || threshold == nil {
		return
	}
	metrics.GetOrRegisterGauge(gasPriceThresholdMetric, nil).Update(int64(threshold.Uint64()))
}

func publishProposedSetSize(pool *Pool) {
	if !metrics.Enabled() {
		return
	}
	metrics.GetOrRegisterGauge(proposedSetSizeMetric, nil).Update(int64(pool.ProposedCount()))
}

// command is a unit of work executed by the Mempool's single worker
// goroutine, with exclusive access to pool, queue and partition for the
// duration of fn.
type command struct {
	fn func(pool *Pool, queue *Queue, partition *PartitionManager)
}

// Mempool is the single owner of Pool, Queue and PartitionManager. Every
// externally visible operation is a closure sent over cmdCh and executed
// by run in its own goroutine, so none of the three collaborators needs a
// lock of its own — the same discipline txpool.go uses around its reorg
// loop, just narrowed to a single always-on worker instead of an
// event-triggered one.
type Mempool struct {
	log       log.Logger
	threshold *uint256.Int

	cmdCh  chan command
	stopCh chan struct{}
	doneCh chan struct{}
}

// New starts a Mempool with the given initial gas-price threshold and
// returns it ready to serve requests. Call Close to stop its worker.
func New(logger log.Logger, threshold *uint256.Int) *Mempool {
	if logger == nil {
		logger = log.Root()
	}
	m := &Mempool{
		log:       logger,
		threshold: threshold,
		cmdCh:     make(chan command, 64),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
	go m.run()
	return m
}

// run is the Mempool's single-threaded worker. Every closure it receives
// over cmdCh executes to completion before the next is dequeued, so pool,
// queue and partition never observe a concurrent mutation.
func (m *Mempool) run() {
	defer close(m.doneCh)

	pool := NewPool()
	queue := NewQueue()
	partition := NewPartitionManager(m.threshold)
	publishGasPriceThreshold(m.threshold)

	for {
		select {
		case cmd := <-m.cmdCh:
			cmd.fn(pool, queue, partition)
		case <-m.stopCh:
			// Run whatever was already queued before exiting.
			for {
				select {
				case cmd := <-m.cmdCh:
					cmd.fn(pool, queue, partition)
				default:
					return
				}
			}
		}
	}
}

// Close stops the Mempool's worker and waits for it to exit. Requests
// already queued finish running; requests submitted after Close returns
// ErrClosed.
func (m *Mempool) Close() {
	select {
	case <-m.stopCh:
	default:
		close(m.stopCh)
	}
	<-m.doneCh
}

// submit runs fn on the Mempool's worker goroutine and blocks until it
// completes or ctx is done. Cancellation only affects the caller: the
// worker always finishes its current closure, the same tradeoff the
// component request/response loop makes by dropping a reply whose
// receiver already hung up.
func (m *Mempool) submit(ctx context.Context, fn func(pool *Pool, queue *Queue, partition *PartitionManager)) error {
	done := make(chan struct{})
	cmd := command{fn: func(pool *Pool, queue *Queue, partition *PartitionManager) {
		defer close(done)
		fn(pool, queue, partition)
	}}

	select {
	case <-m.stopCh:
		return ErrClosed
	default:
	}

	select {
	case m.cmdCh <- cmd:
	case <-m.stopCh:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-m.doneCh:
		select {
		case <-done:
			return nil
		default:
			return ErrClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AddTx validates and admits a single transaction. On success the
// transaction is immediately eligible for proposal, subject to the
// partition manager's gas-price threshold.
func (m *Mempool) AddTx(ctx context.Context, args AddTransactionArgs) error {
	var admitErr error
	err := m.submit(ctx, func(pool *Pool, queue *Queue, partition *PartitionManager) {
		sender := args.Tx.Sender
		floor := pool.RaiseCommittedNonceFloor(sender, args.AccountState.Nonce)

		if insertErr := pool.Insert(args.Tx, args.AccountState.Nonce); insertErr != nil {
			admitErr = insertErr
			return
		}
		queue.Recompute(pool, sender, floor)
	})
	if err != nil {
		return err
	}
	return admitErr
}

// GetTxs proposes up to n transactions in priority order: senders are
// visited highest-tip-first (ties broken by ascending address for
// determinism), and each visited sender contributes its whole contiguous
// eligible run until either its run is exhausted, the overall budget n is
// reached, or one of its transactions fails the partition manager's
// current gas-price threshold — at which point that sender's remaining
// run is left untouched for a future call. Returned transactions remain in
// the pool (and are marked in-flight against re-admission) until a
// subsequent CommitBlock or Rewind resolves them.
func (m *Mempool) GetTxs(ctx context.Context, n int) ([]Transaction, error) {
	var out []Transaction
	err := m.submit(ctx, func(pool *Pool, queue *Queue, partition *PartitionManager) {
		out = popEligible(pool, queue, partition, n)
		publishProposedSetSize(pool)
	})
	return out, err
}

// CommitBlock reconciles the pool with a committed block: every sender's
// committed-nonce floor advances to the reported new nonce, every
// transaction hash in TxHashes is evicted, any transaction left behind
// with a nonce below the new floor is dropped as stale, and any
// transaction at or above the new floor that had been handed out by a
// prior GetTxs but was not included becomes eligible for proposal again.
func (m *Mempool) CommitBlock(ctx context.Context, args CommitBlockArgs) error {
	return m.submit(ctx, func(pool *Pool, queue *Queue, partition *PartitionManager) {
		for hash := range args.TxHashes {
			pool.RemoveByHash(hash)
		}
		settled := make(map[Address]struct{}, len(args.Nonces))
		for sender, newNonce := range args.Nonces {
			floor := pool.RaiseCommittedNonceFloor(sender, newNonce)
			pool.RemoveUpToNonce(sender, floor)
			pool.clearProposedFloor(sender)
			queue.Recompute(pool, sender, floor)
			settled[sender] = struct{}{}
		}
		// The proposed set is cleared in full on every commit, not just
		// for senders the committed nonces/hashes touched: a sender
		// proposed this round but absent from Nonces still had its
		// transactions returned by GetTxs and must become re-eligible.
		for _, sender := range pool.ProposedSenders() {
			if _, ok := settled[sender]; ok {
				continue
			}
			pool.clearProposedFloor(sender)
			queue.Recompute(pool, sender, pool.CommittedNonce(sender))
		}
		publishProposedSetSize(pool)
	})
}

// Rewind abandons the in-flight proposal bookkeeping for sender without
// committing anything, making any transaction GetTxs had handed out for it
// eligible for proposal again. Used when a proposal round is discarded
// (for example because the surrounding L1Provider or consensus round
// aborted) rather than committed.
func (m *Mempool) Rewind(ctx context.Context, sender Address) error {
	return m.submit(ctx, func(pool *Pool, queue *Queue, partition *PartitionManager) {
		pool.clearProposedFloor(sender)
		queue.Recompute(pool, sender, pool.CommittedNonce(sender))
		publishProposedSetSize(pool)
	})
}

// SetGasPriceThreshold adjusts the minimum L2 gas price required for
// proposal eligibility, mirroring txpool.TxPool.SetGasTip.
func (m *Mempool) SetGasPriceThreshold(ctx context.Context, threshold *uint256.Int) error {
	return m.submit(ctx, func(pool *Pool, queue *Queue, partition *PartitionManager) {
		partition.SetThreshold(threshold)
		publishGasPriceThreshold(threshold)
	})
}

// GasPriceThreshold returns the minimum L2 gas price currently required
// for proposal eligibility.
func (m *Mempool) GasPriceThreshold(ctx context.Context) (*uint256.Int, error) {
	var threshold *uint256.Int
	err := m.submit(ctx, func(pool *Pool, queue *Queue, partition *PartitionManager) {
		threshold = partition.Threshold()
	})
	return threshold, err
}

// CommittedNonce returns the sender's current committed-nonce floor,
// primarily for tests and diagnostics.
func (m *Mempool) CommittedNonce(ctx context.Context, sender Address) (uint64, error) {
	var nonce uint64
	err := m.submit(ctx, func(pool *Pool, queue *Queue, partition *PartitionManager) {
		nonce = pool.CommittedNonce(sender)
	})
	return nonce, err
}
