package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/cwlogs/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (default ~/.config/cwlogs/config.toml)")
	region := flag.String("region", "", "AWS region (overrides config)")
	profile := flag.String("profile", "", "AWS shared config profile (overrides config and AWS_PROFILE)")
	demo := flag.Bool("demo", false, "browse generated demo data instead of AWS")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		Region:     *region,
		Profile:    *profile,
		Demo:       *demo,
	}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "cwlogs: %v\n", err)
		return 1
	}
	return 0
}
