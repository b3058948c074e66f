// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mempool

import (
	"sync/atomic"

	"github.com/holiman/uint256"
)

// PartitionManager gates proposal eligibility on a single, adjustable L2
// gas-price threshold, mirroring the gas-tip floor txpool.TxPool exposes
// through GasTip/SetGasTip. Transactions below the threshold stay in the
// pool and queue untouched; they become eligible again, with no
// resubmission required, the moment the threshold drops back down.
type PartitionManager struct {
	threshold atomic.Pointer[uint256.Int]
}

// NewPartitionManager returns a manager with the given initial threshold.
func NewPartitionManager(threshold *uint256.Int) *PartitionManager {
	pm := &PartitionManager{}
	if threshold == nil {
		threshold = uint256.NewInt(0)
	}
	pm.threshold.Store(threshold)
	return pm
}

// Threshold returns the current minimum L2 gas price required for
// proposal eligibility.
func (pm *PartitionManager) Threshold() *uint256.Int {
	return pm.threshold.Load()
}

// SetThreshold adjusts the minimum L2 gas price required for proposal
// eligibility. It takes effect immediately for the next GetTxs call.
func (pm *PartitionManager) SetThreshold(threshold *uint256.Int) {
	if threshold == nil {
		threshold = uint256.NewInt(0)
	}
	pm.threshold.Store(threshold)
}

// Admits reports whether tx's max L2 gas price meets the current
// threshold. A transaction with no resource bounds set never qualifies
// once the threshold is above zero.
func (pm *PartitionManager) Admits(tx Transaction) bool {
	threshold := pm.threshold.Load()
	if threshold.IsZero() {
		return true
	}
	if tx.Resource.MaxL2GasPrice == nil {
		return false
	}
	return tx.Resource.MaxL2GasPrice.Cmp(threshold) >= 0
}
