// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package l1provider

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeEventSource is a minimal L1EventSource a test can drip-feed from
// its own goroutine, mirroring how a real base-layer adapter would queue
// up events between crawler ticks.
type fakeEventSource struct {
	mu         sync.Mutex
	unconsumed []Transaction
	includedL2 []Hash
	rewoundBy  time.Duration
}

func (f *fakeEventSource) PollUnconsumed(ctx context.Context) ([]Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.unconsumed
	f.unconsumed = nil
	return out, nil
}

func (f *fakeEventSource) PollIncludedOnL2(ctx context.Context) ([]Hash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.includedL2
	f.includedL2 = nil
	return out, nil
}

func (f *fakeEventSource) RewindBy(ctx context.Context, d time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rewoundBy = d
	return nil
}

func (f *fakeEventSource) queueUnconsumed(txs ...Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unconsumed = append(f.unconsumed, txs...)
}

func TestCrawlerTickFeedsProvider(t *testing.T) {
	p := newTestProvider(t)
	source := &fakeEventSource{}
	source.queueUnconsumed(Transaction{Hash: testHash(1)}, Transaction{Hash: testHash(2)})

	c := NewCrawler(nil, p, source, time.Millisecond)
	ctx := context.Background()
	require.NoError(t, c.tick(ctx))

	require.NoError(t, p.ProposalStart(ctx))
	got, err := p.GetTxs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestCrawlerRunStopsOnContextCancel(t *testing.T) {
	p := newTestProvider(t)
	source := &fakeEventSource{}
	c := NewCrawler(nil, p, source, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("crawler did not stop after context cancellation")
	}
}

func TestCrawlerRunDrivesMultipleTicks(t *testing.T) {
	p := newTestProvider(t)
	source := &fakeEventSource{}

	c := NewCrawler(nil, p, source, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	source.queueUnconsumed(Transaction{Hash: testHash(5)})

	require.Eventually(t, func() bool {
		ctx := context.Background()
		if err := p.ProposalStart(ctx); err != nil {
			return false
		}
		got, err := p.GetTxs(ctx, 10)
		require.NoError(t, err)
		if len(got) != 1 {
			_ = p.CommitBlock(ctx, CommitBlockArgs{})
			return false
		}
		return true
	}, time.Second, time.Millisecond)

	cancel()
	<-done
}
