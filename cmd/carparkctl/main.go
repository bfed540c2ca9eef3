// Command carparkctl runs batch jobs against the car park record store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/stwalsh4118/carparks/internal/cli"
	"github.com/stwalsh4118/carparks/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(cli.ExitCommandError)
	}

	// Jobs check the context between rows, so an interrupt stops them cleanly
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err = cli.NewRootCommand(cli.DefaultOptions(cfg)).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
