// Package main provides the sheetjson command.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/domonda/go-sheetjson/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
