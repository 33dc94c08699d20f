package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AurisAASI/backend-core/internal/llm"
	"github.com/AurisAASI/backend-core/internal/website"
)

var (
	websiteCompanyID string
	websiteURL       string
)

var websiteCmd = &cobra.Command{
	Use:   "website",
	Short: "Enrich a company from its website",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("website"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		pub, err := initQueue(ctx)
		if err != nil {
			return err
		}
		defer pub.Close()

		extractor, err := llm.New(cfg.LLM)
		if err != nil {
			return err
		}

		engine := website.New(website.Config{
			CompanyID:     websiteCompanyID,
			Website:       websiteURL,
			MaxPages:      cfg.Website.MaxPages,
			Timeout:       time.Duration(cfg.Website.TimeoutSecs) * time.Second,
			UserAgent:     cfg.Website.UserAgent,
			MaxPageChars:  cfg.Website.MaxPageChars,
			MaxTotalChars: cfg.Website.MaxTotalChars,
			FederalTopic:  cfg.Queue.FederalTopic,
		}, st, pub, extractor)

		outcome, err := engine.Run(ctx)
		if err != nil {
			return eris.Wrap(err, "website run")
		}

		zap.L().Info("website enrichment finished",
			zap.String("status", string(outcome.Status)),
			zap.String("reason", outcome.Reason))
		return printOutcome(outcome)
	},
}

func init() {
	websiteCmd.Flags().StringVar(&websiteCompanyID, "company-id", "", "company ID (required)")
	websiteCmd.Flags().StringVar(&websiteURL, "url", "", "company website URL (required)")
	_ = websiteCmd.MarkFlagRequired("company-id")
	_ = websiteCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(websiteCmd)
}
