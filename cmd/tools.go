package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tinoosan/fanbase/internal/config"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/service/rankings"
)

// rankingsCommand prints a leaderboard from whichever backend the config selects.
func rankingsCommand() *cobra.Command {
	var (
		season int64
		unit   string
	)
	cmd := &cobra.Command{
		Use:   "rankings",
		Short: "Print donor rankings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			filter, ok := fandom.ParseUnitFilter(unit)
			if !ok {
				return fmt.Errorf("unknown unit %q", unit)
			}
			var seasonID *int64
			if season > 0 {
				seasonID = &season
			}
			items, err := rankings.New(a.provider, a.run).Season(cmd.Context(), seasonID, filter).Value()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tDONOR\tTOTAL")
			for _, it := range items {
				fmt.Fprintf(tw, "%d\t%s\t%d\n", it.Rank, it.DonorName, it.TotalAmount)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Int64Var(&season, "season", 0, "season id; 0 ranks every season")
	cmd.Flags().StringVar(&unit, "unit", "all", "all, excel, crew or vip")
	return cmd
}

// seedCommand loads the fixture dataset into an empty relational store.
func seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Migrate and seed the configured database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				return fmt.Errorf("no config found in context")
			}
			if cfg.UseMockData {
				return fmt.Errorf("seed needs a database backend; set USE_MOCK_DATA=false")
			}
			cfg.DevSeed = true
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "seed complete:", a.provider.Kind())
			return nil
		},
	}
}
