package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "sensoringest/docs"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// @title           sensoringest API
// @version         1.0
// @description     Certifies environmental sensor time series: duplicate removal, dropout reporting, gap filling and appending new logger downloads to certified workbooks.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
