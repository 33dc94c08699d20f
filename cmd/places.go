package main

import (
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	placeseng "github.com/AurisAASI/backend-core/internal/places"
	placesapi "github.com/AurisAASI/backend-core/pkg/places"
)

var (
	placesNiche string
	placesCity  string
	placesState string
	placesTerms string
)

var placesCmd = &cobra.Command{
	Use:   "places",
	Short: "Discover companies for a niche in a city",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("places"); err != nil {
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

		client := placesapi.NewClient(cfg.Places.APIKey,
			placesapi.WithBaseURL(cfg.Places.BaseURL),
			placesapi.WithHTTPClient(&http.Client{
				Timeout: time.Duration(cfg.Places.TimeoutSecs) * time.Second,
			}))

		engine := placeseng.New(placeseng.Config{
			Niche:            placesNiche,
			City:             placesCity,
			State:            placesState,
			QuotaLimit:       cfg.Places.Quota(cfg.Stage),
			DuplicateRadiusM: cfg.Places.DuplicateRadiusM,
			WebsiteTopic:     cfg.Queue.WebsiteTopic,
			TermsPath:        placesTerms,
		}, client, st, pub)

		outcome, err := engine.Run(ctx)
		if err != nil {
			return eris.Wrap(err, "places run")
		}

		zap.L().Info("place discovery finished",
			zap.String("status", string(outcome.Status)),
			zap.String("reason", outcome.Reason),
			zap.Int("quota_used", outcome.QuotaUsed))
		return printOutcome(outcome)
	},
}

func init() {
	placesCmd.Flags().StringVar(&placesNiche, "niche", "", "business niche (required)")
	placesCmd.Flags().StringVar(&placesCity, "city", "", "city name (required)")
	placesCmd.Flags().StringVar(&placesState, "state", "", "state abbreviation (required)")
	placesCmd.Flags().StringVar(&placesTerms, "terms", "", "search terms YAML (default embedded)")
	_ = placesCmd.MarkFlagRequired("niche")
	_ = placesCmd.MarkFlagRequired("city")
	_ = placesCmd.MarkFlagRequired("state")
	rootCmd.AddCommand(placesCmd)
}
