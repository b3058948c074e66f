// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package l1provider

import (
	mapset "github.com/deckarep/golang-set/v2"
	lru "github.com/hashicorp/golang-lru"
)

// consumedCacheSize bounds how many already-committed L1 handler hashes
// transactionManager remembers purely to reject a crawler replay. The
// crawler's own polling window can re-observe an L1 event it already
// reported once (overlapping block ranges around its lookback), and
// without this the manager would happily readmit a hash it already
// purged in commitBlock since nothing else still remembers it.
const consumedCacheSize = 4096

// transactionManager is the provider's pending-pool bookkeeping: an
// insertion-ordered set of not-yet-included L1 handler transactions, a
// FIFO cursor into how many of them the current proposal round has
// already handed out, and the set of hashes known to have reached L2 but
// not yet observed consumed on L1. Go has no ordered-map primitive, so the
// insertion order lives in a parallel slice alongside the lookup map —
// the same pattern txpool.go uses for its own per-account bookkeeping,
// just FIFO instead of nonce-indexed.
type transactionManager struct {
	order         []Hash
	txs           map[Hash]Transaction
	proposedCount int
	onL2          mapset.Set[Hash]

	// consumed remembers hashes this manager has already committed, so
	// a crawler replaying an old L1 event doesn't resurrect it.
	consumed *lru.Cache
}

func newTransactionManager() *transactionManager {
	consumed, _ := lru.New(consumedCacheSize)
	return &transactionManager{
		txs:      make(map[Hash]Transaction),
		onL2:     mapset.NewThreadUnsafeSet[Hash](),
		consumed: consumed,
	}
}

// addUnconsumed records tx as pending inclusion, unless it is already
// known either as pending, as already-on-L2-awaiting-consumption, or as
// previously committed and purged by an earlier commitBlock.
func (m *transactionManager) addUnconsumed(tx Transaction) {
	if _, ok := m.txs[tx.Hash]; ok {
		return
	}
	if m.onL2.Contains(tx.Hash) {
		return
	}
	if m.consumed.Contains(tx.Hash) {
		return
	}
	m.txs[tx.Hash] = tx
	m.order = append(m.order, tx.Hash)
}

// markIncludedOnL2 moves hash out of the pending pool and into the
// awaiting-L1-consumption set. A no-op if hash isn't currently pending.
func (m *transactionManager) markIncludedOnL2(hash Hash) {
	if _, ok := m.txs[hash]; !ok {
		return
	}
	delete(m.txs, hash)
	m.removeFromOrder(hash)
	m.onL2.Add(hash)
}

func (m *transactionManager) removeFromOrder(hash Hash) {
	for i, h := range m.order {
		if h == hash {
			m.order = append(m.order[:i:i], m.order[i+1:]...)
			return
		}
	}
}

// getTxs returns up to n transactions from the FIFO pending pool,
// skipping the ones already handed out this proposal round, and advances
// the round's cursor past whatever it returns.
func (m *transactionManager) getTxs(n int) []Transaction {
	if n <= 0 || m.proposedCount >= len(m.order) {
		return nil
	}
	end := m.proposedCount + n
	if end > len(m.order) {
		end = len(m.order)
	}
	hashes := m.order[m.proposedCount:end]
	out := make([]Transaction, 0, len(hashes))
	for _, h := range hashes {
		out = append(out, m.txs[h])
	}
	m.proposedCount = end
	return out
}

// status classifies hash for validate().
func (m *transactionManager) status(hash Hash) ValidationStatus {
	if _, ok := m.txs[hash]; ok {
		return Validated
	}
	if m.onL2.Contains(hash) {
		return AlreadyIncludedOnL2
	}
	return ConsumedOnL1OrUnknown
}

// commitBlock purges every committed hash from the pending pool and
// resets the proposal cursor, making anything proposed-but-not-committed
// eligible again from the front of the FIFO order.
func (m *transactionManager) commitBlock(committed map[Hash]struct{}) {
	for hash := range committed {
		delete(m.txs, hash)
		m.removeFromOrder(hash)
		m.consumed.Add(hash, struct{}{})
	}
	m.proposedCount = 0
}

// reset clears every internal buffer, used by handle_reorg. The
// consumed-hash cache is purged too: a reorg can un-commit a block, so a
// hash this manager previously treated as permanently gone may become a
// legitimate pending transaction again.
func (m *transactionManager) reset() {
	m.order = nil
	m.txs = make(map[Hash]Transaction)
	m.proposedCount = 0
	m.onL2 = mapset.NewThreadUnsafeSet[Hash]()
	m.consumed.Purge()
}
