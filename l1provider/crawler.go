// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package l1provider

import (
	"context"
	"time"

	"github.com/luxfi/log"
)

// L1EventSource is the adapter a Crawler polls for new or newly-confirmed
// L1 handler transactions. Cryptographic verification of the underlying
// L1 events is the adapter's responsibility, not the crawler's.
type L1EventSource interface {
	RewindCursor

	// PollUnconsumed returns L1 handler transactions observed since the
	// adapter's cursor that have not yet been consumed on L1.
	PollUnconsumed(ctx context.Context) ([]Transaction, error)

	// PollIncludedOnL2 returns hashes the adapter has observed land in
	// an L2 block but not yet be consumed on L1.
	PollIncludedOnL2(ctx context.Context) ([]Hash, error)
}

// Crawler periodically polls an L1EventSource and feeds its results into a
// Provider's ingestion hooks. The Rust original leaves this as a `todo!()`
// with comments describing the intended tick-driven behavior; this is
// that behavior, implemented.
type Crawler struct {
	log          log.Logger
	provider     *Provider
	source       L1EventSource
	pollInterval time.Duration
}

// NewCrawler returns a Crawler that has not yet started polling.
func NewCrawler(logger log.Logger, provider *Provider, source L1EventSource, pollInterval time.Duration) *Crawler {
	if logger == nil {
		logger = log.Root()
	}
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Crawler{
		log:          logger,
		provider:     provider,
		source:       source,
		pollInterval: pollInterval,
	}
}

// Run polls on Crawler's configured interval until ctx is done.
func (c *Crawler) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := c.tick(ctx); err != nil {
				c.log.Error("l1 crawler tick failed", "err", err)
			}
		}
	}
}

func (c *Crawler) tick(ctx context.Context) error {
	unconsumed, err := c.source.PollUnconsumed(ctx)
	if err != nil {
		return err
	}
	for _, tx := range unconsumed {
		if err := c.provider.AddUnconsumedL1NotInL2BlockTx(ctx, tx); err != nil {
			return err
		}
	}

	included, err := c.source.PollIncludedOnL2(ctx)
	if err != nil {
		return err
	}
	for _, hash := range included {
		if err := c.provider.MarkTxIncludedOnL2(ctx, hash); err != nil {
			return err
		}
	}
	return nil
}
