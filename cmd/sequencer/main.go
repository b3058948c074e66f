// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// sequencer runs the mempool, L1 provider, and their component servers
// as a single supervised process.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/luxfi/log"
	"github.com/spf13/pflag"
	"github.com/urfave/cli/v2"

	"github.com/luxfi/sequencer-core/node"
)

const clientIdentifier = "sequencer"

var app = &cli.App{
	Name:    clientIdentifier,
	Usage:   "Starknet-style sequencer node core: mempool, L1 provider, component servers, P2P sync",
	Version: node.Version,
}

func init() {
	app.Action = runSequencer
	app.Before = func(_ *cli.Context) error {
		log.SetDefault(log.Root())
		return nil
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runSequencer parses the node's own flag/config layer out of the
// remaining CLI arguments (pflag + viper, the same two-step wiring the
// teacher's cmd/simulator main uses) rather than modeling every node
// setting as a cli.Flag, then builds and runs a node.Node until the
// process receives an interrupt or a component server terminates.
func runSequencer(cliCtx *cli.Context) error {
	fs := node.BuildFlagSet()
	v, err := node.BuildViper(fs, cliCtx.Args().Slice())
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("building config: %w", err)
	}

	if v.GetBool(node.VersionKey) {
		fmt.Println(node.Version)
		return nil
	}

	cfg, err := node.BuildConfig(v)
	if err != nil {
		return fmt.Errorf("resolving config: %w", err)
	}

	logger := log.Root()

	n, err := node.New(logger, cfg, nil, nil)
	if err != nil {
		return fmt.Errorf("building node: %w", err)
	}
	defer n.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := n.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("sequencer exited: %w", err)
	}
	return nil
}
