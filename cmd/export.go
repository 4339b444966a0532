package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/class-attendance/internal/export"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <group>",
	Short: "Export a class roster",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md, xlsx")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write to this file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	group := args[0]
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if format == export.XLSX && exportOut == "" {
		fmt.Fprintln(os.Stderr, "xlsx output needs --out <file>")
		os.Exit(1)
	}

	s := openSession(cmd)
	store := s.store()
	if _, err := os.Stat(store.Path(group)); err != nil {
		fmt.Fprintf(os.Stderr, "no roster for %q: %v\n", group, err)
		os.Exit(1)
	}
	r, err := store.Load(group)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if exportOut == "" {
		w := bufio.NewWriter(os.Stdout)
		if err := export.Roster(w, format, group, r); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		if err := w.Flush(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		return nil
	}

	f, err := os.Create(exportOut)
	if err != nil {
		fmt.Fprintln(os.Stderr, "storage error creating export:", err)
		os.Exit(2)
	}
	if err := export.Roster(f, format, group, r); err != nil {
		f.Close()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "storage error closing export:", err)
		os.Exit(2)
	}
	fmt.Fprintf(os.Stderr, "Exported %s (%d participants, %d sessions) to %s\n",
		group, len(r.Rows), len(r.Columns()), exportOut)
	return nil
}
