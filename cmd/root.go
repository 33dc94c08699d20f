package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AurisAASI/backend-core/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "leadscraper",
	Short: "Brazilian company knowledge-base pipeline",
	Long:  "Discovers companies through the Places API, enriches them by crawling their websites with LLM extraction, and completes the picture with the federal CNPJ registry.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
