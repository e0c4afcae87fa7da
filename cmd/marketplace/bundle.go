package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/bundle"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/carrier"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/config"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/observability"
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/types"
)

var (
	bundlePlans         []string
	bundleState         string
	bundleEffectiveDate string
	bundleDOB           string
	bundleSmoker        bool
	bundleConfig        string
	bundleShowQuestions bool
)

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Fetch the eligibility question bundle for selected plans",
	Long:  `Build a carrier bundle request for the selected plans and print the returned eligibility questions.`,
	RunE:  runBundle,
}

func init() {
	bundleCmd.Flags().StringArrayVar(&bundlePlans, "plan", nil, "Selected plan as 'id:name' (repeatable, required)")
	bundleCmd.Flags().StringVar(&bundleState, "state", "", "Two-letter state code (required)")
	bundleCmd.Flags().StringVar(&bundleEffectiveDate, "effective-date", "", "Coverage effective date, YYYY-MM-DD (required)")
	bundleCmd.Flags().StringVar(&bundleDOB, "dob", "", "Applicant date of birth, YYYY-MM-DD")
	bundleCmd.Flags().BoolVar(&bundleSmoker, "smoker", false, "Applicant uses tobacco")
	bundleCmd.Flags().StringVar(&bundleConfig, "config", "", "Path to JSON config file")
	bundleCmd.Flags().BoolVar(&bundleShowQuestions, "questions", false, "Print every question with its answers")
	rootCmd.AddCommand(bundleCmd)
}

func runBundle(_ *cobra.Command, _ []string) error {
	cfg, err := loadCLIConfig(bundleConfig, config.Config{
		BundleURL: os.Getenv("CARRIER_BUNDLE_URL"),
	})
	if err != nil {
		return err
	}
	if cfg.BundleURL == "" {
		return fmt.Errorf("bundle URL is required (config 'bundle_url' or CARRIER_BUNDLE_URL)")
	}

	plans, err := parsePlanFlags(bundlePlans)
	if err != nil {
		return err
	}

	overrides := carrier.DefaultOverrides()
	if cfg.OverridesPath != "" {
		overrides, err = carrier.LoadOverrides(cfg.OverridesPath)
		if err != nil {
			return err
		}
	}

	builder := bundle.NewBuilder(carrier.NewResolver(overrides, nil))
	req, err := builder.Build(bundle.BuildInput{
		Plans:         plans,
		State:         bundleState,
		EffectiveDate: bundleEffectiveDate,
		AgentID:       cfg.AgentID,
		Facts: types.ApplicantFacts{
			DateOfBirth: bundleDOB,
			IsSmoker:    bundleSmoker,
		},
	})
	if err != nil {
		return err
	}

	client, err := bundle.NewClient(bundle.ClientConfig{
		BundleURL: cfg.BundleURL,
		Username:  cfg.CarrierUsername,
		Password:  cfg.CarrierPassword,
	})
	if err != nil {
		return err
	}

	resp, err := client.FetchBundle(context.Background(), req)
	if err != nil {
		// The guidance string is what an applicant would see in the UI.
		fmt.Fprintln(os.Stderr, bundle.Guidance(err))
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintBundleSummary(req, resp)
	if bundleShowQuestions {
		for _, app := range resp.Applications {
			for i := range app.Questions {
				printer.PrintQuestion(&app.Questions[i])
			}
		}
	}
	return nil
}

// parsePlanFlags parses repeated --plan 'id:name' flags into selected plans.
func parsePlanFlags(raw []string) ([]types.SelectedPlan, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("at least one --plan is required")
	}
	plans := make([]types.SelectedPlan, 0, len(raw))
	for _, entry := range raw {
		id, name, found := strings.Cut(entry, ":")
		if !found || id == "" || name == "" {
			return nil, fmt.Errorf("invalid --plan %q: expected 'id:name'", entry)
		}
		plans = append(plans, types.SelectedPlan{ID: id, Name: name})
	}
	return plans, nil
}
