package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/weekend/internal/forumctl"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := forumctl.NewApp(os.Stdin, os.Stdout, os.Stderr).Run(ctx, os.Args[1:])
	stop()

	os.Exit(code)
}
