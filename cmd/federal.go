package main

import (
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AurisAASI/backend-core/internal/cnpj"
	"github.com/AurisAASI/backend-core/internal/federal"
	"github.com/AurisAASI/backend-core/pkg/brasilapi"
)

var (
	federalCompanyID string
	federalCNPJ      string
)

var federalCmd = &cobra.Command{
	Use:   "federal",
	Short: "Fetch the federal registry record for a CNPJ",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("federal"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		client := brasilapi.NewClient(
			brasilapi.WithBaseURL(cfg.Federal.BaseURL),
			brasilapi.WithHTTPClient(&http.Client{
				Timeout: time.Duration(cfg.Federal.TimeoutSecs) * time.Second,
			}))

		engine := federal.New(federal.Config{
			CompanyID:  federalCompanyID,
			CNPJ:       cnpj.Clean(federalCNPJ),
			MaxRetries: cfg.Federal.MaxRetries,
		}, client, st)

		outcome, err := engine.Run(ctx)
		if err != nil {
			return eris.Wrap(err, "federal run")
		}

		zap.L().Info("registry lookup finished",
			zap.String("status", string(outcome.Status)),
			zap.String("reason", outcome.Reason))
		return printOutcome(outcome)
	},
}

func init() {
	federalCmd.Flags().StringVar(&federalCompanyID, "company-id", "", "company ID (required)")
	federalCmd.Flags().StringVar(&federalCNPJ, "cnpj", "", "CNPJ, punctuation allowed (required)")
	_ = federalCmd.MarkFlagRequired("company-id")
	_ = federalCmd.MarkFlagRequired("cnpj")
	rootCmd.AddCommand(federalCmd)
}
