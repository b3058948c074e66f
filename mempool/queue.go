// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mempool

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/prque"
)

// Queue tracks, per sender, the nonce of the next transaction eligible for
// proposal: the head of the contiguous run starting at the sender's
// committed-nonce floor. It does not store transactions itself; Pool
// remains the source of truth, the same split txpool.go draws between its
// priority heap of candidate senders and the account lists that back it.
type Queue struct {
	heads map[Address]uint64
}

// NewQueue returns an empty Queue.
func NewQueue() *Queue {
	return &Queue{heads: make(map[Address]uint64)}
}

// Recompute refreshes sender's head against pool, given the nonce below
// which sender's transactions are no longer eligible (its current
// committed-nonce floor). It must be called after every pool mutation that
// could affect sender's contiguous run: insertion, removal, or a floor
// change. A sender with nothing eligible at floor is dropped from the
// queue entirely.
func (q *Queue) Recompute(pool *Pool, sender Address, floor uint64) {
	if _, ok := pool.Get(sender, floor); !ok {
		delete(q.heads, sender)
		return
	}
	q.heads[sender] = floor
}

// Remove drops sender from the queue entirely.
func (q *Queue) Remove(sender Address) {
	delete(q.heads, sender)
}

// Senders returns every sender the queue currently considers to have at
// least one eligible transaction.
func (q *Queue) Senders() []Address {
	out := make([]Address, 0, len(q.heads))
	for addr := range q.heads {
		out = append(out, addr)
	}
	return out
}

// Head returns sender's current eligible nonce, if any.
func (q *Queue) Head(sender Address) (uint64, bool) {
	nonce, ok := q.heads[sender]
	return nonce, ok
}

// headPriority packs a sender's head tip and address into a single
// lexicographically ordered key so a plain prque.Prque can express the
// queue's whole ordering rule (tip descending, address ascending) as one
// priority instead of a priority-then-tiebreak pair: the tip occupies the
// high-order bytes so a bigger tip always sorts above a smaller one
// regardless of address, and the address bytes are bit-inverted so that,
// for equal tips, the numerically smaller address produces the larger
// (higher-priority) key and is popped first.
func headPriority(tip uint64, sender Address) string {
	var buf [8 + common.AddressLength]byte
	binary.BigEndian.PutUint64(buf[:8], tip)
	for i, b := range sender {
		buf[8+i] = ^b
	}
	return string(buf[:])
}

// popEligible drains queue's senders in priority order — highest tip
// first, ties broken by ascending address — via a single prque.Prque keyed
// by headPriority, mirroring the way the teacher's miner package orders
// and consumes transactionsByPriceAndNonce. Each sender's whole contiguous
// eligible run is consumed before the next sender is popped.
func popEligible(pool *Pool, queue *Queue, partition *PartitionManager, n int) []Transaction {
	if n <= 0 || len(queue.heads) == 0 {
		return nil
	}

	pq := prque.New[string, Address](nil)
	for sender, nonce := range queue.heads {
		tx, ok := pool.Get(sender, nonce)
		if !ok {
			continue
		}
		pq.Push(sender, headPriority(tx.Tip, sender))
	}

	out := make([]Transaction, 0, n)
	for !pq.Empty() && len(out) < n {
		sender, _ := pq.Pop()
		nonce, ok := queue.Head(sender)
		if !ok {
			continue
		}
		run := pool.IterEligible(sender, nonce)
		consumed := uint64(0)
		for _, tx := range run {
			if len(out) >= n {
				break
			}
			if !partition.Admits(tx) {
				break
			}
			out = append(out, tx)
			pool.bumpProposedFloor(tx.Sender, tx.Nonce)
			consumed++
		}
		if consumed > 0 {
			queue.Recompute(pool, sender, nonce+consumed)
		}
	}
	return out
}
