// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mempool

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain uses goleak to verify tests in this package leave no worker
// goroutine running past Close, the same guard the teacher's core
// package puts around its own background loops.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func addr(b byte) Address {
	var a Address
	a[19] = b
	return a
}

func hash(b byte) Hash {
	var h Hash
	h[31] = b
	return h
}

func newTestMempool(t *testing.T) *Mempool {
	t.Helper()
	m := New(nil, uint256.NewInt(0))
	t.Cleanup(m.Close)
	return m
}

func addTx(t *testing.T, m *Mempool, sender Address, nonce uint64, h Hash, tip uint64, accountNonce uint64) error {
	t.Helper()
	return m.AddTx(context.Background(), AddTransactionArgs{
		Tx: Transaction{
			Sender: sender,
			Nonce:  nonce,
			Hash:   h,
			Tip:    tip,
		},
		AccountState: AccountState{Address: sender, Nonce: accountNonce},
	})
}

func getTxs(t *testing.T, m *Mempool, n int) []Transaction {
	t.Helper()
	txs, err := m.GetTxs(context.Background(), n)
	require.NoError(t, err)
	return txs
}

func hashesOf(txs []Transaction) []Hash {
	out := make([]Hash, len(txs))
	for i, tx := range txs {
		out[i] = tx.Hash
	}
	return out
}

func TestGapFillBecomesEligible(t *testing.T) {
	m := newTestMempool(t)
	sender0, sender1 := addr(0), addr(1)

	require.NoError(t, addTx(t, m, sender0, 1, hash(2), 1, 0))
	require.NoError(t, addTx(t, m, sender1, 0, hash(3), 1, 0))

	got := getTxs(t, m, 2)
	require.Equal(t, []Hash{hash(3)}, hashesOf(got))

	require.NoError(t, addTx(t, m, sender0, 0, hash(1), 1, 0))

	got = getTxs(t, m, 2)
	require.Equal(t, []Hash{hash(1), hash(2)}, hashesOf(got))
}

func TestDuplicateNonceAfterProposal(t *testing.T) {
	m := newTestMempool(t)
	sender := addr(0)

	require.NoError(t, addTx(t, m, sender, 0, hash(0), 1, 0))

	got := getTxs(t, m, 1)
	require.Equal(t, []Hash{hash(0)}, hashesOf(got))

	err := addTx(t, m, sender, 0, hash(1), 1, 0)
	require.Error(t, err)
	var nonceErr *NonceTooOldError
	require.ErrorAs(t, err, &nonceErr)
	require.Equal(t, sender, nonceErr.Sender)
	require.Equal(t, uint64(0), nonceErr.Nonce)
}

func TestContiguousRunProposedAndRewoundOnPartialCommit(t *testing.T) {
	m := newTestMempool(t)
	sender := addr(0)

	require.NoError(t, addTx(t, m, sender, 3, hash(3), 1, 3))
	require.NoError(t, addTx(t, m, sender, 4, hash(4), 1, 3))
	require.NoError(t, addTx(t, m, sender, 5, hash(5), 1, 3))

	got := getTxs(t, m, 2)
	require.Equal(t, []Hash{hash(3), hash(4)}, hashesOf(got))

	require.NoError(t, m.CommitBlock(context.Background(), CommitBlockArgs{
		Nonces:   map[Address]uint64{sender: 4},
		TxHashes: map[Hash]struct{}{hash(3): {}},
	}))

	got = getTxs(t, m, 2)
	require.Equal(t, []Hash{hash(4), hash(5)}, hashesOf(got))
}

func TestGasPriceThresholdGating(t *testing.T) {
	m := newTestMempool(t)
	senderA, senderB := addr(0xA), addr(0xB)

	txA := Transaction{Sender: senderA, Nonce: 0, Hash: hash(0xA), Tip: 100,
		Resource: ResourceBounds{MaxL2GasPrice: uint256.NewInt(20)}}
	txB := Transaction{Sender: senderB, Nonce: 0, Hash: hash(0xB), Tip: 50,
		Resource: ResourceBounds{MaxL2GasPrice: uint256.NewInt(30)}}

	require.NoError(t, m.AddTx(context.Background(), AddTransactionArgs{Tx: txA, AccountState: AccountState{Address: senderA}}))
	require.NoError(t, m.AddTx(context.Background(), AddTransactionArgs{Tx: txB, AccountState: AccountState{Address: senderB}}))

	require.NoError(t, m.SetGasPriceThreshold(context.Background(), uint256.NewInt(30)))

	got := getTxs(t, m, 2)
	require.Equal(t, []Hash{hash(0xB)}, hashesOf(got))

	require.NoError(t, m.CommitBlock(context.Background(), CommitBlockArgs{
		Nonces:   map[Address]uint64{senderB: 1},
		TxHashes: map[Hash]struct{}{hash(0xB): {}},
	}))

	require.NoError(t, m.SetGasPriceThreshold(context.Background(), uint256.NewInt(10)))

	got = getTxs(t, m, 2)
	require.Equal(t, []Hash{hash(0xA)}, hashesOf(got))
}

func TestDuplicateHashRejected(t *testing.T) {
	m := newTestMempool(t)
	sender := addr(0)
	h := hash(1)

	require.NoError(t, addTx(t, m, sender, 0, h, 1, 0))
	err := addTx(t, m, sender, 1, h, 1, 0)
	require.Error(t, err)
	var dupErr *DuplicateHashError
	require.ErrorAs(t, err, &dupErr)
}

func TestRewindRestoresEligibility(t *testing.T) {
	m := newTestMempool(t)
	sender := addr(0)

	require.NoError(t, addTx(t, m, sender, 0, hash(1), 1, 0))
	got := getTxs(t, m, 1)
	require.Equal(t, []Hash{hash(1)}, hashesOf(got))

	require.NoError(t, m.Rewind(context.Background(), sender))

	got = getTxs(t, m, 1)
	require.Equal(t, []Hash{hash(1)}, hashesOf(got))
}

func TestCommitBlockRewindsSendersAbsentFromNonces(t *testing.T) {
	m := newTestMempool(t)
	sender0, sender1 := addr(0), addr(1)

	require.NoError(t, addTx(t, m, sender0, 0, hash(1), 1, 0))
	require.NoError(t, addTx(t, m, sender1, 0, hash(2), 1, 0))

	got := getTxs(t, m, 2)
	require.ElementsMatch(t, []Hash{hash(1), hash(2)}, hashesOf(got))

	// Only sender0's transaction actually lands in the committed block;
	// sender1 was proposed this round but the block says nothing about
	// it, so its proposed transaction must become eligible again.
	require.NoError(t, m.CommitBlock(context.Background(), CommitBlockArgs{
		Nonces:   map[Address]uint64{sender0: 1},
		TxHashes: map[Hash]struct{}{hash(1): {}},
	}))

	got = getTxs(t, m, 2)
	require.Equal(t, []Hash{hash(2)}, hashesOf(got))
}

func TestAddressHelperIsDeterministic(t *testing.T) {
	require.Equal(t, common.BytesToAddress([]byte{0xA}), addr(0xA))
}
