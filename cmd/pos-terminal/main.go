package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"pos-terminal/internal/app/terminal"
	"pos-terminal/internal/common/logger"
	"pos-terminal/internal/config"
)

func main() {
	mode := flag.String("mode", "terminal", "terminal | sweep")
	port := flag.Int("port", 3000, "http port for the terminal service")
	configPath := flag.String("config", "config.yml", "path to the config file")
	flag.Parse()

	_ = godotenv.Load()

	lg := logger.New("bootstrap")
	cfg, err := config.Load(*configPath)
	if err != nil {
		lg.Error("config_load_failed", err, map[string]any{"path": *configPath})
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch *mode {
	case "terminal":
		lg.Info("service_started", map[string]any{"service": "pos-terminal", "port": *port})
		if err := terminal.Run(ctx, cfg, *port); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "sweep":
		lg.Info("service_started", map[string]any{"service": "stored-order-sweep"})
		if err := terminal.Sweep(ctx, cfg); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "--mode is required: terminal | sweep")
		os.Exit(2)
	}
}
