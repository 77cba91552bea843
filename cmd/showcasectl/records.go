package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"showcase/internal/core"
	"showcase/internal/export"
)

const commandTimeout = 30 * time.Second

var printer = message.NewPrinter(language.Japanese)

type filterFlags struct {
	search   string
	category string
	status   string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.search, "search", "", "case-insensitive substring of the record name")
	cmd.Flags().StringVar(&f.category, "category", core.SentinelAll, "exact category or \"all\"")
	cmd.Flags().StringVar(&f.status, "status", core.SentinelAll, "active, inactive, pending or \"all\"")
}

func (f *filterFlags) criteria() core.Criteria {
	return core.Criteria{SearchTerm: f.search, Category: f.category, Status: f.status}.Normalize()
}

func newRecordsCmd(open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Query the record set",
	}
	cmd.AddCommand(
		newListCmd(open),
		newCategoriesCmd(open),
		newStatsCmd(open),
		newExportCmd(open),
	)
	return cmd
}

// loadRecords opens the backend, reads every record and releases the backend.
func loadRecords(cmd *cobra.Command, open openFunc) ([]core.Record, error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	res, err := open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open backend: %w", err)
	}
	defer func() { _ = res.Close() }()

	recs, err := res.Backend.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	if recs == nil {
		recs = []core.Record{}
	}
	return recs, nil
}

func newListCmd(open openFunc) *cobra.Command {
	var (
		flags  filterFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records matching the filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := loadRecords(cmd, open)
			if err != nil {
				return err
			}
			matched, err := core.Filter(recs, flags.criteria())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), matched)
			}
			return writeTable(cmd.OutOrStdout(), matched)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newCategoriesCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Print the distinct record categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := loadRecords(cmd, open)
			if err != nil {
				return err
			}
			set, err := core.DistinctCategories(recs)
			if err != nil {
				return err
			}
			for _, c := range core.SortedCategories(set) {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

func newStatsCmd(open openFunc) *cobra.Command {
	var flags filterFlags
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise the records matching the filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := loadRecords(cmd, open)
			if err != nil {
				return err
			}
			matched, err := core.Filter(recs, flags.criteria())
			if err != nil {
				return err
			}
			st := core.Aggregate(matched)
			out := cmd.OutOrStdout()
			printer.Fprintf(out, "総数: %d\n", st.TotalCount)
			printer.Fprintf(out, "アクティブ: %d\n", st.ActiveCount)
			printer.Fprintf(out, "総価値: ¥%d\n", st.TotalValue)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newExportCmd(open openFunc) *cobra.Command {
	var (
		flags filterFlags
		out   string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the records matching the filters to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := loadRecords(cmd, open)
			if err != nil {
				return err
			}
			matched, err := core.Filter(recs, flags.criteria())
			if err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := export.WriteXLSX(f, matched, core.Aggregate(matched)); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d records written to %s\n", len(matched), out)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "records.xlsx", "output file")
	return cmd
}

type recordOut struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Value     int64  `json:"value"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

func writeJSON(w io.Writer, recs []core.Record) error {
	out := make([]recordOut, 0, len(recs))
	for _, r := range recs {
		out = append(out, recordOut{r.ID, r.Name, r.Category, r.Value, string(r.Status), r.CreatedAt})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeTable(w io.Writer, recs []core.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tVALUE\tSTATUS\tCREATED")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Name, r.Category, printer.Sprintf("¥%d", r.Value), r.Status, r.CreatedAt)
	}
	return tw.Flush()
}
