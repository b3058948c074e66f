// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package l1provider

import (
	"context"
	"errors"
	"time"

	"github.com/luxfi/log"
)

// ErrClosed is returned by any Provider method called after Close.
var ErrClosed = errors.New("l1provider: closed")

// RewindCursor is implemented by the ingestion adapter feeding the
// provider's crawler; HandleReorg calls RewindBy to move the adapter's L1
// cursor back by the configured lookback so the crawler re-observes
// events the reorg may have invalidated.
type RewindCursor interface {
	RewindBy(ctx context.Context, d time.Duration) error
}

type command struct {
	fn func(state State, mgr *transactionManager) (State, error)
}

// Provider is the channel-serialized Pending/Propose/Validate coordinator
// for L1 handler transactions. Like Mempool, it owns its state exclusively
// from a single worker goroutine; every operation is a closure executed to
// completion before the next is dequeued.
type Provider struct {
	log      log.Logger
	cursor   RewindCursor
	lookback time.Duration

	cmdCh  chan command
	stopCh chan struct{}
	doneCh chan struct{}
}

// New returns a Provider in the Pending state. cursor may be nil if no
// ingestion adapter is wired (HandleReorg then only clears local state).
func New(logger log.Logger, cursor RewindCursor, lookback time.Duration) *Provider {
	if logger == nil {
		logger = log.Root()
	}
	p := &Provider{
		log:      logger,
		cursor:   cursor,
		lookback: lookback,
		cmdCh:    make(chan command, 64),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *Provider) run() {
	defer close(p.doneCh)

	state := Pending
	mgr := newTransactionManager()

	for {
		select {
		case cmd := <-p.cmdCh:
			next, err := cmd.fn(state, mgr)
			if err == nil {
				state = next
			}
		case <-p.stopCh:
			return
		}
	}
}

// Close stops the Provider's worker and waits for it to exit.
func (p *Provider) Close() {
	select {
	case <-p.stopCh:
	default:
		close(p.stopCh)
	}
	<-p.doneCh
}

func (p *Provider) submit(ctx context.Context, fn func(state State, mgr *transactionManager) (State, error)) error {
	done := make(chan struct{})
	var opErr error
	cmd := command{fn: func(state State, mgr *transactionManager) (State, error) {
		defer close(done)
		next, err := fn(state, mgr)
		opErr = err
		return next, err
	}}

	select {
	case <-p.stopCh:
		return ErrClosed
	default:
	}

	select {
	case p.cmdCh <- cmd:
	case <-p.stopCh:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return opErr
	case <-p.doneCh:
		select {
		case <-done:
			return opErr
		default:
			return ErrClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ProposalStart transitions Pending -> Propose.
func (p *Provider) ProposalStart(ctx context.Context) error {
	return p.submit(ctx, func(state State, mgr *transactionManager) (State, error) {
		if state != Pending {
			return state, ErrUnexpectedProviderStateTransition
		}
		return Propose, nil
	})
}

// ValidationStart transitions Pending -> Validate.
func (p *Provider) ValidationStart(ctx context.Context) error {
	return p.submit(ctx, func(state State, mgr *transactionManager) (State, error) {
		if state != Pending {
			return state, ErrUnexpectedProviderStateTransition
		}
		return Validate, nil
	})
}

// GetTxs returns up to n transactions for the current proposal round.
// Legal only in Propose.
func (p *Provider) GetTxs(ctx context.Context, n int) ([]Transaction, error) {
	var out []Transaction
	err := p.submit(ctx, func(state State, mgr *transactionManager) (State, error) {
		switch state {
		case Pending:
			return state, ErrGetTransactionsInPendingState
		case Validate:
			return state, ErrGetTransactionConsensusBug
		}
		out = mgr.getTxs(n)
		return state, nil
	})
	return out, err
}

// Validate classifies hash for the current validation round. Legal only
// in Validate.
func (p *Provider) Validate(ctx context.Context, hash Hash) (ValidationStatus, error) {
	var status ValidationStatus
	err := p.submit(ctx, func(state State, mgr *transactionManager) (State, error) {
		switch state {
		case Pending:
			return state, ErrValidateInPendingState
		case Propose:
			return state, ErrValidateTransactionConsensusBug
		}
		status = mgr.status(hash)
		return state, nil
	})
	return status, err
}

// CommitBlock purges committed hashes from the pending pool, clears the
// proposal round, and transitions back to Pending. Legal from either
// Propose or Validate.
func (p *Provider) CommitBlock(ctx context.Context, args CommitBlockArgs) error {
	return p.submit(ctx, func(state State, mgr *transactionManager) (State, error) {
		if state != Propose && state != Validate {
			return state, ErrUnexpectedProviderStateTransition
		}
		mgr.commitBlock(args.CommittedTxHashes)
		return Pending, nil
	})
}

// HandleReorg resets every internal buffer and, if an ingestion adapter
// is wired, rewinds its L1 cursor by the configured lookback.
func (p *Provider) HandleReorg(ctx context.Context) error {
	err := p.submit(ctx, func(state State, mgr *transactionManager) (State, error) {
		mgr.reset()
		return Pending, nil
	})
	if err != nil {
		return err
	}
	if p.cursor == nil {
		return nil
	}
	return p.cursor.RewindBy(ctx, p.lookback)
}

// AddUnconsumedL1NotInL2BlockTx is the crawler's ingestion hook for a
// newly observed L1 handler transaction. Legal in any state.
func (p *Provider) AddUnconsumedL1NotInL2BlockTx(ctx context.Context, tx Transaction) error {
	return p.submit(ctx, func(state State, mgr *transactionManager) (State, error) {
		mgr.addUnconsumed(tx)
		return state, nil
	})
}

// MarkTxIncludedOnL2 is the crawler's ingestion hook for a transaction it
// has observed land in an L2 block but not yet be consumed on L1. Legal in
// any state.
func (p *Provider) MarkTxIncludedOnL2(ctx context.Context, hash Hash) error {
	return p.submit(ctx, func(state State, mgr *transactionManager) (State, error) {
		mgr.markIncludedOnL2(hash)
		return state, nil
	})
}
