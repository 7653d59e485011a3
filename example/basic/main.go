package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/ghalamif/AlyvixCheck"
)

func main() {
	cfg, err := alyvixcheck.LoadConfig("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	agent, err := alyvixcheck.NewAgent(cfg)
	if err != nil {
		log.Fatalf("new agent: %v", err)
	}
	defer agent.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := agent.Run(ctx); err != nil {
		log.Printf("check finished with errors: %v", err)
	}
}
