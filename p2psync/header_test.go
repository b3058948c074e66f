// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package p2psync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	headerMarker       uint64
	transactionsMarker uint64

	headers    map[uint64]BlockHeader
	signatures map[uint64][]byte
	txs        map[uint64][]Transaction

	headerMarkerErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		headers:    make(map[uint64]BlockHeader),
		signatures: make(map[uint64][]byte),
		txs:        make(map[uint64][]Transaction),
	}
}

func (f *fakeStorage) HeaderMarker() (uint64, error) {
	if f.headerMarkerErr != nil {
		return 0, f.headerMarkerErr
	}
	return f.headerMarker, nil
}

func (f *fakeStorage) TransactionsMarker() (uint64, error) { return f.transactionsMarker, nil }

func (f *fakeStorage) AppendHeader(number uint64, header BlockHeader) error {
	f.headers[number] = header
	f.headerMarker = number + 1
	return nil
}

func (f *fakeStorage) AppendBlockSignature(number uint64, signature []byte) error {
	f.signatures[number] = signature
	return nil
}

func (f *fakeStorage) AppendBlockTransactions(number uint64, txs []Transaction) error {
	f.txs[number] = txs
	f.transactionsMarker = number + 1
	return nil
}

// fakeHeaderSource replays a fixed slice of headers, then signals Fin.
type fakeHeaderSource struct {
	items []SignedBlockHeader
	next  int
	err   error
}

func (s *fakeHeaderSource) Next(ctx context.Context) (SignedBlockHeader, bool, error) {
	if s.err != nil {
		return SignedBlockHeader{}, false, s.err
	}
	if s.next >= len(s.items) {
		return SignedBlockHeader{}, false, nil
	}
	item := s.items[s.next]
	s.next++
	return item, true, nil
}

func sig() []byte { return []byte{0x01} }

func TestHeaderStreamBuilderHappyPath(t *testing.T) {
	storage := newFakeStorage()
	source := &fakeHeaderSource{items: []SignedBlockHeader{
		{Header: BlockHeader{Number: 0, Timestamp: uint64(time.Now().Unix())}, Signatures: [][]byte{sig()}},
		{Header: BlockHeader{Number: 1, Timestamp: uint64(time.Now().Unix())}, Signatures: [][]byte{sig()}},
	}}

	err := Run[SignedBlockHeader](context.Background(), HeaderStreamBuilder{}, storage, storage, source)
	require.NoError(t, err)
	require.Equal(t, uint64(2), storage.headerMarker)
	require.Contains(t, storage.headers, uint64(0))
	require.Contains(t, storage.headers, uint64(1))
}

func TestHeaderStreamBuilderRejectsOutOfOrder(t *testing.T) {
	storage := newFakeStorage()
	source := &fakeHeaderSource{items: []SignedBlockHeader{
		{Header: BlockHeader{Number: 5}, Signatures: [][]byte{sig()}},
	}}

	err := Run[SignedBlockHeader](context.Background(), HeaderStreamBuilder{}, storage, storage, source)
	require.Error(t, err)
	var badPeer BadPeerError
	require.ErrorAs(t, err, &badPeer)
	var unordered *HeadersUnorderedError
	require.ErrorAs(t, err, &unordered)
	require.Equal(t, uint64(0), unordered.Expected)
	require.Equal(t, uint64(5), unordered.Actual)
}

func TestHeaderStreamBuilderRejectsWrongSignatureCount(t *testing.T) {
	storage := newFakeStorage()
	source := &fakeHeaderSource{items: []SignedBlockHeader{
		{Header: BlockHeader{Number: 0}, Signatures: [][]byte{sig(), sig()}},
	}}

	err := Run[SignedBlockHeader](context.Background(), HeaderStreamBuilder{}, storage, storage, source)
	require.Error(t, err)
	var wrongLen *WrongSignaturesLengthError
	require.ErrorAs(t, err, &wrongLen)
	require.Equal(t, 2, wrongLen.Got)
}

func TestHeaderStreamBuilderResumesFromMarker(t *testing.T) {
	storage := newFakeStorage()
	storage.headerMarker = 3
	source := &fakeHeaderSource{items: []SignedBlockHeader{
		{Header: BlockHeader{Number: 3}, Signatures: [][]byte{sig()}},
	}}

	err := Run[SignedBlockHeader](context.Background(), HeaderStreamBuilder{}, storage, storage, source)
	require.NoError(t, err)
	require.Equal(t, uint64(4), storage.headerMarker)
}

type onePeerSource struct {
	source *fakeHeaderSource
	opened int
}

func (p *onePeerSource) NewResponseSource(ctx context.Context) (PeerResponseSource[SignedBlockHeader], error) {
	p.opened++
	return p.source, nil
}

func TestRunStreamDropsAndResyncsOnBadPeer(t *testing.T) {
	storage := newFakeStorage()
	badSource := &fakeHeaderSource{items: []SignedBlockHeader{
		{Header: BlockHeader{Number: 7}, Signatures: [][]byte{sig()}},
	}}
	peers := &onePeerSource{source: badSource}

	err := RunStream[SignedBlockHeader](context.Background(), nil, HeaderStreamBuilder{}, storage, storage, &singleAttemptThenFailPeers{onePeerSource: peers})
	require.Error(t, err)
	require.Equal(t, 1, peers.opened)
}

// singleAttemptThenFailPeers opens the same bad source once, then fails
// on the second attempt so the resync loop in RunStream terminates
// deterministically instead of retrying forever against the same peer.
type singleAttemptThenFailPeers struct {
	*onePeerSource
	failed bool
}

func (p *singleAttemptThenFailPeers) NewResponseSource(ctx context.Context) (PeerResponseSource[SignedBlockHeader], error) {
	if p.failed {
		return nil, errors.New("no peers available")
	}
	p.failed = true
	return p.onePeerSource.NewResponseSource(ctx)
}
