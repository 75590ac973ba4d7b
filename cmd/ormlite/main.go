package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/eleven-am/ormlite/internal/cli"
	"github.com/eleven-am/ormlite/internal/logger"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer logger.Sync()

	cmd := cli.NewRootCommand()
	return cmd.ExecuteContext(ctx)
}
