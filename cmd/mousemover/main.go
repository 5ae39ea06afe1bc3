package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/stigoleg/mousemover/internal/cli"
	"github.com/stigoleg/mousemover/internal/ui"
)

// appVersion is set at build time with -ldflags "-X main.appVersion=...".
var appVersion = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), getSignalsForPlatform()...)
	defer stop()

	root := cli.NewRootCmd(cli.App{Version: appVersion})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.FormatError(err))
		stop()
		os.Exit(1)
	}
}
