package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gflcollect/boxes-backend-go/internal/bootstrap"
	"github.com/gflcollect/boxes-backend-go/internal/config"
	"github.com/gflcollect/boxes-backend-go/internal/database"
	"github.com/gflcollect/boxes-backend-go/internal/models"
	"github.com/gflcollect/boxes-backend-go/internal/service"
)

var (
	cfgFile  string
	maxBoxes int
	minScore float64
	yes      bool
)

var rootCmd = &cobra.Command{
	Use:   "boxctl",
	Short: "boxctl - plan and record collection box pickups from the terminal",
	Long: `boxctl works against the same catalog and state database as the HTTP
server. It ranks boxes by predicted profitability, records visit
observations and resets visit history.`,
	SilenceUsage: true,
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Print the recommended boxes for today, best first",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer database.Close()

		recs := app.Optimizer.Rank(models.RecommendationFilter{MaxBoxes: maxBoxes, MinScore: minScore})
		if len(recs) == 0 {
			fmt.Println("No box matches the given criteria.")
			return nil
		}

		fmt.Printf("TOP %d RECOMMENDED BOXES\n\n", len(recs))
		for i, rec := range recs {
			fmt.Printf("%2d. Box #%-4d score %5.1f\n", i+1, rec.BoxID, rec.ProfitabilityScore)
			fmt.Printf("    %s, %s (%s)\n", rec.Address, rec.Commune, rec.PostalCode)
			fmt.Printf("    expected fill %.1f/10, average %.1f/10", rec.ExpectedFill, rec.AverageFill)
			if rec.DaysSinceLastVisit != nil {
				fmt.Printf(", last visit %d days ago", *rec.DaysSinceLastVisit)
			} else {
				fmt.Printf(", never visited")
			}
			fmt.Printf("\n\n")
		}
		return nil
	},
}

var visitCmd = &cobra.Command{
	Use:   "visit <box-id> <observed-fill>",
	Short: "Record an observed visit for a box",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		boxID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid box id %q", args[0])
		}
		fill, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid fill level %q", args[1])
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer database.Close()

		event, err := app.Optimizer.RecordVisit(boxID, fill)
		if err != nil {
			if !models.IsPersistenceWarning(err) {
				return err
			}
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
		fmt.Printf("Visit recorded for box #%d (expected %.1f, observed %.1f)\n",
			event.BoxID, event.ExpectedFill, event.ObservedFill)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all visit history and last-visit timestamps",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !yes {
			return fmt.Errorf("reset is irreversible; re-run with --yes to confirm")
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer database.Close()

		cleared, err := app.Optimizer.ResetAllVisits()
		if err != nil {
			if !models.IsPersistenceWarning(err) {
				return err
			}
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
		fmt.Printf("Cleared visit state for %d boxes\n", cleared)
		return nil
	},
}

func newApp() (*bootstrap.App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./boxes.yaml)")

	rankCmd.Flags().IntVar(&maxBoxes, "max-boxes", service.DefaultMaxBoxes, "maximum number of boxes to recommend")
	rankCmd.Flags().Float64Var(&minScore, "min-score", service.DefaultMinScore, "minimum profitability score")

	resetCmd.Flags().BoolVar(&yes, "yes", false, "confirm the irreversible reset")

	rootCmd.AddCommand(rankCmd, visitCmd, resetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
