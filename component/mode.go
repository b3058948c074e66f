// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package component

import "fmt"

// ExecutionMode selects which of the three server variants (or none) a
// component is wrapped in for a given node deployment.
type ExecutionMode int

const (
	// Disabled means no server is instantiated for this component; the
	// node produces a nil client reference for any caller that asks.
	Disabled ExecutionMode = iota

	// LocalExecutionWithRemoteDisabled runs a local in-process server
	// and serves no remote endpoint.
	LocalExecutionWithRemoteDisabled

	// LocalExecutionWithRemoteEnabled runs a local in-process server
	// and additionally exposes it over the network via a remote server.
	LocalExecutionWithRemoteEnabled

	// Remote means this node does not run the component at all; callers
	// reach it exclusively through a RemoteClient pointed at another
	// node.
	Remote
)

func (m ExecutionMode) String() string {
	switch m {
	case LocalExecutionWithRemoteDisabled:
		return "LocalExecutionWithRemoteDisabled"
	case LocalExecutionWithRemoteEnabled:
		return "LocalExecutionWithRemoteEnabled"
	case Remote:
		return "Remote"
	default:
		return "Disabled"
	}
}

// RunsLocalServer reports whether this mode instantiates a local server.
func (m ExecutionMode) RunsLocalServer() bool {
	return m == LocalExecutionWithRemoteDisabled || m == LocalExecutionWithRemoteEnabled
}

// RunsRemoteServer reports whether this mode exposes a remote endpoint
// for the component's local server.
func (m ExecutionMode) RunsRemoteServer() bool {
	return m == LocalExecutionWithRemoteEnabled
}

// ParseExecutionMode parses the config-file/flag spelling of an
// ExecutionMode back into its typed value.
func ParseExecutionMode(s string) (ExecutionMode, error) {
	switch s {
	case "Disabled", "":
		return Disabled, nil
	case "LocalExecutionWithRemoteDisabled":
		return LocalExecutionWithRemoteDisabled, nil
	case "LocalExecutionWithRemoteEnabled":
		return LocalExecutionWithRemoteEnabled, nil
	case "Remote":
		return Remote, nil
	default:
		return Disabled, fmt.Errorf("unknown execution mode %q", s)
	}
}
