// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package l1provider

// State is the provider's consensus-phase state. The zero value is
// Pending, matching the Rust original's `#[default]` on ProviderState.
type State int

const (
	Pending State = iota
	Propose
	Validate
)

func (s State) String() string {
	switch s {
	case Propose:
		return "Propose"
	case Validate:
		return "Validate"
	default:
		return "Pending"
	}
}
