package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/league-standings/cmd/standingsctl/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	commands.ExecuteContext(ctx)
}
