package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/andrescamacho/anac-utility-go/internal/adapters/cli"
	"github.com/andrescamacho/anac-utility-go/internal/infrastructure/config"
)

func main() {
	// Parse command-line flags
	forceFlag := flag.Bool("force", false, "Terminate any running server and start a new one")
	configFlag := flag.String("config", "", "Path to config file (default: search ., ./configs, /etc/anac-utility)")
	flag.Parse()

	fmt.Println("ANAC Utility Daemon v1.0.0")
	fmt.Println("==========================")

	// Load configuration
	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configFlag) // Empty string = search default paths

	fmt.Printf("Recipe: %s\n", cfg.Data.RecipePath)
	fmt.Printf("Buyer distribution: %s\n", cfg.Data.BuyerDistributionPath)
	fmt.Printf("Seller distribution: %s\n", cfg.Data.SellerDistributionPath)
	if cfg.Server.PIDFile != "" {
		fmt.Printf("PID file: %s\n", cfg.Server.PIDFile)
	}
	fmt.Printf("Listening on %s\n", cfg.Server.Address())

	if err := cli.Serve(context.Background(), cfg, *forceFlag); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}

	fmt.Println("Daemon stopped")
}
