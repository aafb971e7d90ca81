/*
main.go - pamctl, the offline contract tool

PURPOSE:
  Generates schedules and valuations for a contract-terms JSON file
  without a running server. Useful for inspecting a contract quickly or
  piping schedules into other tooling.

USAGE:
  pamctl schedule --terms bond.json --horizon 2030-01-01
  pamctl value    --terms bond.json --as-of 2025-06-30 --rate 0.03

SEE ALSO:
  - factory/terms.go: the terms JSON schema
*/
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/warp/contract-engine/factory"
	"github.com/warp/contract-engine/pam"
	"github.com/warp/contract-engine/schedule"
	"github.com/warp/contract-engine/valuation"
)

func main() {
	root := &cobra.Command{
		Use:           "pamctl",
		Short:         "Generate schedules and valuations for PAM contracts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(scheduleCmd(), valueCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pamctl:", err)
		os.Exit(1)
	}
}

func scheduleCmd() *cobra.Command {
	var termsPath, horizonStr string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the lifecycle event schedule of a contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			terms, err := loadTerms(termsPath)
			if err != nil {
				return err
			}
			horizon, err := resolveHorizon(horizonStr, terms)
			if err != nil {
				return err
			}

			events, err := pam.NewScheduler(nil).Schedule(horizon, terms)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tKIND\tCURRENCY")
			for _, e := range events {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Date, e.Kind, e.Currency)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&termsPath, "terms", "", "contract terms JSON file")
	cmd.Flags().StringVar(&horizonStr, "horizon", "", "projection horizon (YYYY-MM-DD, default: maturity or +30y)")
	cmd.MarkFlagRequired("terms")
	return cmd
}

func valueCmd() *cobra.Command {
	var termsPath, asOfStr string
	var rate float64

	cmd := &cobra.Command{
		Use:   "value",
		Short: "Value a contract against a flat discount curve",
		RunE: func(cmd *cobra.Command, args []string) error {
			terms, err := loadTerms(termsPath)
			if err != nil {
				return err
			}
			asOf := terms.StatusDate
			if asOfStr != "" {
				if asOf, err = schedule.ParseDate(asOfStr); err != nil {
					return err
				}
			}
			horizon, err := resolveHorizon("", terms)
			if err != nil {
				return err
			}

			events, err := pam.NewScheduler(nil).Schedule(horizon, terms)
			if err != nil {
				return err
			}
			valuer := valuation.NewValuer(valuation.FlatRateProvider{Rate: rate}, "FLAT")
			result, err := valuer.Value(asOf, events, terms)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tKIND\tAMOUNT")
			for _, f := range result.Flows {
				fmt.Fprintf(w, "%s\t%s\t%s\n", f.Date, f.Kind, f.Amount)
			}
			fmt.Fprintf(w, "\nNPV as of %s\t\t%s\n", asOf, result.NPV)
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&termsPath, "terms", "", "contract terms JSON file")
	cmd.Flags().StringVar(&asOfStr, "as-of", "", "valuation date (default: status date)")
	cmd.Flags().Float64Var(&rate, "rate", 0.03, "flat annual discount rate")
	cmd.MarkFlagRequired("terms")
	return cmd
}

func loadTerms(path string) (pam.ContractTerms, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pam.ContractTerms{}, err
	}
	return factory.ParseTerms(string(data))
}

func resolveHorizon(value string, terms pam.ContractTerms) (schedule.TimePoint, error) {
	if value != "" {
		return schedule.ParseDate(value)
	}
	if terms.MaturityDate != nil {
		return *terms.MaturityDate, nil
	}
	return terms.StatusDate.AddYears(30), nil
}
