package main

import (
	"context"
	"os"
	"os/signal"

	"agrostats/cmd/agrostats-cli/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	commands.ExecuteContext(ctx)
}
