// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mempool

// txLocation pinpoints a transaction stored in the pool by its natural
// key, so RemoveByHash doesn't need to scan every account.
type txLocation struct {
	Sender Address
	Nonce  uint64
}

// accountBucket is the set of not-yet-committed transactions a single
// sender has in the pool, keyed by nonce. Starknet and EVM-style accounts
// only ever have one live transaction per nonce, so a plain map (rather
// than the teacher's per-account linked list) is the natural fit here.
type accountBucket struct {
	txs map[uint64]Transaction
}

// Pool is the low-level, synchronous transaction store. It has no
// concurrency control of its own: the Mempool orchestrator above it
// serializes every call through a single command channel, mirroring how
// txpool.TxPool delegates account-level bookkeeping to subpools while
// itself owning the single-threaded reorg loop.
type Pool struct {
	bySender map[Address]*accountBucket
	byHash   map[Hash]txLocation

	// committedNonce is the highest admission floor established for a
	// sender by a prior commit_block or by the account state a gateway
	// reported at submission time; re-submission below it is stale.
	committedNonce map[Address]uint64

	// proposedFloor tracks, per sender, one past the highest nonce
	// handed out by the queue's most recent GetTxs call that has not
	// yet been cleared by a commit or an explicit rewind. It prevents a
	// second transaction from being admitted into a nonce slot that is
	// already in flight for the block currently being proposed.
	proposedFloor map[Address]uint64

	// proposedCount mirrors proposedFloor one-for-one, tracking how many
	// transactions were handed out for each sender this proposal round,
	// so the mempool can publish a total proposed-set-size gauge without
	// re-deriving it from proposedFloor's nonce arithmetic.
	proposedCount map[Address]int
}

// NewPool returns an empty Pool.
func NewPool() *Pool {
	return &Pool{
		bySender:       make(map[Address]*accountBucket),
		byHash:         make(map[Hash]txLocation),
		committedNonce: make(map[Address]uint64),
		proposedFloor:  make(map[Address]uint64),
		proposedCount:  make(map[Address]int),
	}
}

// CommittedNonce returns the sender's current admission floor established
// by commit_block bookkeeping. Zero for a sender the pool has never seen.
func (p *Pool) CommittedNonce(sender Address) uint64 {
	return p.committedNonce[sender]
}

// RaiseCommittedNonceFloor advances the sender's committed-nonce floor to
// n if n is higher than what the pool already has on file, and returns the
// resulting floor. It never lowers the floor: a block commit or a fresher
// account-state observation can only push a sender's nonce forward.
func (p *Pool) RaiseCommittedNonceFloor(sender Address, n uint64) uint64 {
	if n > p.committedNonce[sender] {
		p.committedNonce[sender] = n
	}
	return p.committedNonce[sender]
}

// admissionFloor is the lowest nonce the pool will currently accept for
// sender: the highest of its committed-nonce floor, the account nonce the
// caller just observed, and the in-flight proposed floor.
func (p *Pool) admissionFloor(sender Address, accountNonce uint64) uint64 {
	floor := p.committedNonce[sender]
	if accountNonce > floor {
		floor = accountNonce
	}
	if pf := p.proposedFloor[sender]; pf > floor {
		floor = pf
	}
	return floor
}

// bumpProposedFloor records that nonce has been handed out by GetTxs for
// the current proposal cycle, so a second submission at that slot is
// rejected until the proposal is committed or explicitly rewound.
func (p *Pool) bumpProposedFloor(sender Address, nonce uint64) {
	if next := nonce + 1; next > p.proposedFloor[sender] {
		p.proposedFloor[sender] = next
	}
	p.proposedCount[sender]++
}

// clearProposedFloor drops the in-flight bookkeeping for sender. Called
// once a proposal either commits (the real floor moves to
// RaiseCommittedNonceFloor instead) or is abandoned via rewind.
func (p *Pool) clearProposedFloor(sender Address) {
	delete(p.proposedFloor, sender)
	delete(p.proposedCount, sender)
}

// ProposedCount returns the total number of transactions handed out by
// GetTxs across every sender that have not yet been resolved by a commit
// or an explicit rewind — the mempool's proposed-set size.
func (p *Pool) ProposedCount() int {
	total := 0
	for _, n := range p.proposedCount {
		total += n
	}
	return total
}

// Insert admits tx into the pool if it passes the nonce-floor and
// duplicate checks, in that order: a stale nonce is reported before a
// duplicate-nonce conflict, and a duplicate hash anywhere in the pool is
// reported before a duplicate-nonce conflict local to the sender.
func (p *Pool) Insert(tx Transaction, accountNonce uint64) error {
	floor := p.admissionFloor(tx.Sender, accountNonce)
	if tx.Nonce < floor {
		return &NonceTooOldError{Sender: tx.Sender, Nonce: tx.Nonce}
	}
	if _, exists := p.byHash[tx.Hash]; exists {
		return &DuplicateHashError{Hash: tx.Hash}
	}
	bucket := p.bySender[tx.Sender]
	if bucket == nil {
		bucket = &accountBucket{txs: make(map[uint64]Transaction)}
		p.bySender[tx.Sender] = bucket
	}
	if existing, ok := bucket.txs[tx.Nonce]; ok && existing.Hash != tx.Hash {
		return &DuplicateNonceError{Sender: tx.Sender, Nonce: tx.Nonce}
	}
	bucket.txs[tx.Nonce] = tx
	p.byHash[tx.Hash] = txLocation{Sender: tx.Sender, Nonce: tx.Nonce}
	return nil
}

// Get returns the transaction at (sender, nonce), if present.
func (p *Pool) Get(sender Address, nonce uint64) (Transaction, bool) {
	bucket := p.bySender[sender]
	if bucket == nil {
		return Transaction{}, false
	}
	tx, ok := bucket.txs[nonce]
	return tx, ok
}

// Has reports whether hash is still present in the pool.
func (p *Pool) Has(hash Hash) bool {
	_, ok := p.byHash[hash]
	return ok
}

// RemoveByHash evicts the transaction identified by hash, if any. It is a
// no-op for an unknown hash.
func (p *Pool) RemoveByHash(hash Hash) {
	loc, ok := p.byHash[hash]
	if !ok {
		return
	}
	delete(p.byHash, hash)
	bucket := p.bySender[loc.Sender]
	if bucket == nil {
		return
	}
	delete(bucket.txs, loc.Nonce)
	if len(bucket.txs) == 0 {
		delete(p.bySender, loc.Sender)
	}
}

// RemoveUpToNonce evicts every transaction of sender with a nonce strictly
// below n and returns them, unordered. Used by commit_block to drop
// transactions the new committed nonce has made permanently stale.
func (p *Pool) RemoveUpToNonce(sender Address, n uint64) []Transaction {
	bucket := p.bySender[sender]
	if bucket == nil {
		return nil
	}
	var removed []Transaction
	for nonce, tx := range bucket.txs {
		if nonce < n {
			removed = append(removed, tx)
			delete(bucket.txs, nonce)
			delete(p.byHash, tx.Hash)
		}
	}
	if len(bucket.txs) == 0 {
		delete(p.bySender, sender)
	}
	return removed
}

// IterEligible returns the contiguous run of transactions for sender
// starting at startingNonce: startingNonce, startingNonce+1, ... up to the
// first gap. It returns nil if startingNonce itself isn't present.
func (p *Pool) IterEligible(sender Address, startingNonce uint64) []Transaction {
	bucket := p.bySender[sender]
	if bucket == nil {
		return nil
	}
	var out []Transaction
	for n := startingNonce; ; n++ {
		tx, ok := bucket.txs[n]
		if !ok {
			break
		}
		out = append(out, tx)
	}
	return out
}

// Senders returns every sender currently holding at least one transaction.
func (p *Pool) Senders() []Address {
	out := make([]Address, 0, len(p.bySender))
	for addr := range p.bySender {
		out = append(out, addr)
	}
	return out
}

// ProposedSenders returns every sender with an outstanding in-flight
// proposed floor: one or more transactions handed out by a prior GetTxs
// that have not yet been resolved by a commit or an explicit rewind.
// CommitBlock uses this to rewind senders the committed nonces/hashes
// didn't otherwise touch, per the spec's "proposed set is cleared"
// global rule rather than one scoped only to the committing senders.
func (p *Pool) ProposedSenders() []Address {
	out := make([]Address, 0, len(p.proposedFloor))
	for addr := range p.proposedFloor {
		out = append(out, addr)
	}
	return out
}
