// SPDX-License-Identifier: MIT

// Command trafficeq runs mixed-perception traffic equilibrium sweeps.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

var version = "dev"

func main() {
	ctx, cancel := withSignals(context.Background())
	defer cancel()

	if err := newRootCommand(ctx, version).Execute(); err != nil {
		cancel()
		os.Exit(1)
	}
}

// withSignals returns a context cancelled on SIGINT or SIGTERM. The returned
// cancel func also stops the signal trap.
func withSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	// trap Ctrl+C and termination and call cancel on the context
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-c:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(c)
		cancel()
	}
}
