package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprint(os.Stderr, renderError(err, useColor(os.Stderr)))
		os.Exit(1)
	}
}
