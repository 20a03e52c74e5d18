package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomcatup/tomcatup/internal/errors"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	// SIGINT/SIGTERM cancel the run context so in-flight downloads error
	// out and their deferred temp-file cleanup runs before exit.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		formatter := errors.NewFormatter(os.Stderr, false)
		formatter.Print(err)
		os.Exit(1)
	}
}
