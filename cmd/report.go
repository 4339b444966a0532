package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/class-attendance/internal/export"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report [group]",
	Short: "Show attendance totals per participant",
	Long: `report prints how many of the recorded sessions every participant
attended, for one class or for all rosters.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

func runReport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(reportFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	s := openSession(cmd)
	store := s.store()

	groups := args
	if len(groups) == 0 {
		if groups, err = store.Groups(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}
	if len(groups) == 0 {
		fmt.Printf("No rosters found in %s.\n", s.cfg.Paths.Rosters)
		return nil
	}

	sums := make([]export.Summary, 0, len(groups))
	for _, g := range groups {
		r, err := store.Load(g)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		sums = append(sums, export.Summarize(g, r))
	}

	if err := export.Report(os.Stdout, format, sums); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return nil
}
