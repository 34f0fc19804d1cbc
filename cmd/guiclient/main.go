package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"github.com/harrylevesque/boardbot/internal/app"
)

const appID = "com.boardbot.app"

func main() {
	var o app.Overrides
	flag.StringVar(&o.ConfigPath, "config", "", "Path to boardbot.yaml")
	flag.StringVar(&o.Server, "server", "", "Processing server base URL")
	flag.StringVar(&o.WebSocket, "ws", "", "Status WebSocket URL")
	flag.StringVar(&o.Platform, "platform", "", "Endpoint table row: android, ios or web")
	flag.StringVar(&o.LogLevel, "log-level", "", "debug, info, warn or error")
	flag.Parse()

	a, err := app.New(o, "guiclient")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fa := fyneapp.NewWithID(appID)
	w := newWindow(ctx, fa, a)
	w.SetOnClosed(cancel)

	a.Monitor.Start(ctx)
	w.ShowAndRun()
}
