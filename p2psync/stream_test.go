// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package p2psync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunStreamSucceedsOnFin(t *testing.T) {
	storage := newFakeStorage()
	source := &fakeHeaderSource{} // no items: immediately signals Fin

	err := RunStream[SignedBlockHeader](context.Background(), nil, HeaderStreamBuilder{}, storage, storage, &onePeerSource{source: source})
	require.NoError(t, err)
}

func TestRunStreamAbortsOnStorageError(t *testing.T) {
	storage := newFakeStorage()
	storage.headerMarkerErr = errors.New("disk full")
	source := &fakeHeaderSource{items: []SignedBlockHeader{
		{Header: BlockHeader{Number: 0}, Signatures: [][]byte{sig()}},
	}}

	err := RunStream[SignedBlockHeader](context.Background(), nil, HeaderStreamBuilder{}, storage, storage, &onePeerSource{source: source})
	require.Error(t, err)
	require.ErrorContains(t, err, "disk full")

	var badPeer BadPeerError
	require.False(t, errors.As(err, &badPeer))
}
