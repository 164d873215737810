package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"promo-engine/internal/app/server"
	"promo-engine/internal/config"
)

func main() {
	root := &cobra.Command{
		Use:   "promo-engine",
		Short: "In-product promo arbitration service",
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.Load()
			config.SetupLogging(cfg.Server.LogLevel)
			server.Run(cfg)
		},
	}

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configuration, then exit",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.Load()
			fmt.Printf("ok: %d promos, %d tutorials, storage=%s\n",
				len(cfg.Definitions), len(cfg.Tutorials), cfg.Storage.Driver)
		},
	}

	root.AddCommand(serve, validate)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
