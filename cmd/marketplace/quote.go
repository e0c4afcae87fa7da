package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/config"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/observability"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/quotes"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/types"
)

var (
	quoteState         string
	quoteZip           string
	quoteEffectiveDate string
	quoteDOB           string
	quoteSmoker        bool
	quoteConfig        string
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Fetch plan quotes from all configured carriers",
	Long:  `Fan a quote request out to every configured carrier and print the merged plan list.`,
	RunE:  runQuote,
}

func init() {
	quoteCmd.Flags().StringVar(&quoteState, "state", "", "Two-letter state code (required)")
	quoteCmd.Flags().StringVar(&quoteZip, "zip", "", "Five-digit ZIP code (required)")
	quoteCmd.Flags().StringVar(&quoteEffectiveDate, "effective-date", "", "Coverage effective date, YYYY-MM-DD (defaults to the first of next month)")
	quoteCmd.Flags().StringVar(&quoteDOB, "dob", "", "Applicant date of birth, YYYY-MM-DD")
	quoteCmd.Flags().BoolVar(&quoteSmoker, "smoker", false, "Applicant uses tobacco")
	quoteCmd.Flags().StringVar(&quoteConfig, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(_ *cobra.Command, _ []string) error {
	cfg, err := loadCLIConfig(quoteConfig, config.Config{
		QuoteURL: os.Getenv("CARRIER_QUOTE_URL"),
	})
	if err != nil {
		return err
	}
	if cfg.QuoteURL == "" {
		return fmt.Errorf("quote URL is required (config 'quote_url' or CARRIER_QUOTE_URL)")
	}

	effectiveDate := quoteEffectiveDate
	if effectiveDate == "" {
		now := time.Now()
		effectiveDate = time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	}

	service := quotes.NewService([]quotes.CarrierEndpoint{
		{
			Slug:     types.CarrierAllstate,
			QuoteURL: cfg.QuoteURL,
			Username: cfg.CarrierUsername,
			Password: cfg.CarrierPassword,
		},
	}, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), quotes.DefaultQuoteTimeout)
	defer cancel()

	plans, err := service.Quotes(ctx, quotes.QuoteRequest{
		State:         quoteState,
		ZipCode:       quoteZip,
		EffectiveDate: effectiveDate,
		Facts: types.ApplicantFacts{
			DateOfBirth: quoteDOB,
			IsSmoker:    quoteSmoker,
		},
	})
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintQuotedPlans(plans)
	return nil
}
