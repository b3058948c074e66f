// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"context"
	"fmt"

	"github.com/luxfi/sequencer-core/l1provider"
)

// L1ProviderRequestKind discriminates which L1 provider operation an
// L1ProviderRequest carries.
type L1ProviderRequestKind int

const (
	L1ProviderGetTxs L1ProviderRequestKind = iota
	L1ProviderValidate
	L1ProviderCommitBlock
	L1ProviderProposalStart
	L1ProviderValidationStart
	L1ProviderHandleReorg
)

// L1ProviderRequest is the L1 provider's equivalent of MempoolRequest: a
// concrete sum-of-payloads standing in for the Rust node's
// L1ProviderRequestAndResponseSender enum, kept JSON-serializable for the
// same reason MempoolRequest is — component.RemoteServer round-trips it
// through encoding/json, which cannot unmarshal into a closed interface.
type L1ProviderRequest struct {
	Kind L1ProviderRequestKind

	GetTxsN         int                        `json:",omitempty"`
	ValidateHash    l1provider.Hash            `json:",omitempty"`
	CommitBlockArgs l1provider.CommitBlockArgs `json:",omitempty"`
}

// GetL1TxsRequest builds the request for Provider.GetTxs.
func GetL1TxsRequest(n int) L1ProviderRequest {
	return L1ProviderRequest{Kind: L1ProviderGetTxs, GetTxsN: n}
}

// ValidateRequest builds the request for Provider.Validate.
func ValidateRequest(hash l1provider.Hash) L1ProviderRequest {
	return L1ProviderRequest{Kind: L1ProviderValidate, ValidateHash: hash}
}

// L1CommitBlockRequest builds the request for Provider.CommitBlock.
func L1CommitBlockRequest(args l1provider.CommitBlockArgs) L1ProviderRequest {
	return L1ProviderRequest{Kind: L1ProviderCommitBlock, CommitBlockArgs: args}
}

// ProposalStartRequest builds the request for Provider.ProposalStart.
func ProposalStartRequest() L1ProviderRequest {
	return L1ProviderRequest{Kind: L1ProviderProposalStart}
}

// ValidationStartRequest builds the request for Provider.ValidationStart.
func ValidationStartRequest() L1ProviderRequest {
	return L1ProviderRequest{Kind: L1ProviderValidationStart}
}

// HandleReorgRequest builds the request for Provider.HandleReorg.
func HandleReorgRequest() L1ProviderRequest {
	return L1ProviderRequest{Kind: L1ProviderHandleReorg}
}

// L1ProviderResponse is the corresponding sum-of-results.
type L1ProviderResponse struct {
	Txs    []l1provider.Transaction    `json:",omitempty"`
	Status l1provider.ValidationStatus `json:",omitempty"`
}

type l1ProviderHandler struct {
	provider *l1provider.Provider
}

func (h *l1ProviderHandler) HandleRequest(ctx context.Context, req L1ProviderRequest) (L1ProviderResponse, error) {
	switch req.Kind {
	case L1ProviderGetTxs:
		txs, err := h.provider.GetTxs(ctx, req.GetTxsN)
		return L1ProviderResponse{Txs: txs}, err
	case L1ProviderValidate:
		status, err := h.provider.Validate(ctx, req.ValidateHash)
		return L1ProviderResponse{Status: status}, err
	case L1ProviderCommitBlock:
		return L1ProviderResponse{}, h.provider.CommitBlock(ctx, req.CommitBlockArgs)
	case L1ProviderProposalStart:
		return L1ProviderResponse{}, h.provider.ProposalStart(ctx)
	case L1ProviderValidationStart:
		return L1ProviderResponse{}, h.provider.ValidationStart(ctx)
	case L1ProviderHandleReorg:
		return L1ProviderResponse{}, h.provider.HandleReorg(ctx)
	default:
		return L1ProviderResponse{}, fmt.Errorf("node: unknown L1 provider request kind %d", req.Kind)
	}
}
