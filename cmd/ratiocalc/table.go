package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/julianshen/ratiocalc/internal/multiplier"
	"github.com/julianshen/ratiocalc/internal/pricing"
	"github.com/julianshen/ratiocalc/internal/seed"
)

var errNotConfirmed = errors.New("not confirmed; pass --yes to skip the prompt")

type listing struct {
	Unit string        `json:"unit"`
	Rows []pricing.Row `json:"rows"`
}

func listCmd() *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show every row with its multipliers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			switch formatFlag {
			case "table":
				fmt.Fprintln(out, renderTable(s.table))
				return nil
			case "json":
				data, err := json.MarshalIndent(listing{Unit: s.table.Unit().String(), Rows: s.table.Rows()}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			return fmt.Errorf("unknown format %q: use table or json", formatFlag)
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "table", "output format: table, json")
	return cmd
}

func renderTable(tbl *pricing.Table) string {
	rows := tbl.Rows()
	cells := make([][]string, 0, len(rows))
	for i, r := range rows {
		cells = append(cells, []string{
			strconv.Itoa(i + 1),
			r.ModelName,
			formatPrice(r.InputPrice),
			formatPrice(r.OutputPrice),
			fmt.Sprintf("%.4f", r.ModelMultiplier),
			fmt.Sprintf("%.4f", r.CompletionMultiplier),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Model", "Input", "Output", "Model x", "Completion x").
		Rows(cells...)
	return fmt.Sprintf("Prices per %s tokens\n%s", tbl.Unit(), t.Render())
}

func addCmd() *cobra.Command {
	var nameFlag, inputFlag, outputFlag string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a row and save it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			idx := s.table.AddRow()
			edits := []struct {
				field pricing.Field
				value string
			}{
				{pricing.FieldModelName, nameFlag},
				{pricing.FieldInputPrice, inputFlag},
				{pricing.FieldOutputPrice, outputFlag},
			}
			for _, e := range edits {
				if err := s.table.EditField(idx, e.field, e.value); err != nil {
					return err
				}
			}
			if err := s.table.ToggleEdit(cmd.Context(), idx); err != nil {
				return fmt.Errorf("saving row: %w", err)
			}
			return printRow(cmd, s.table, idx, "added")
		},
	}

	cmd.Flags().StringVar(&nameFlag, "name", "", "model name")
	cmd.Flags().StringVar(&inputFlag, "input", "0", "input price in the current unit")
	cmd.Flags().StringVar(&outputFlag, "output", "0", "output price in the current unit")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func setCmd() *cobra.Command {
	var nameFlag, inputFlag, outputFlag string

	cmd := &cobra.Command{
		Use:   "set <row>",
		Short: "Change fields of a row and save it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := []struct {
				name  string
				field pricing.Field
				value *string
			}{
				{"name", pricing.FieldModelName, &nameFlag},
				{"input", pricing.FieldInputPrice, &inputFlag},
				{"output", pricing.FieldOutputPrice, &outputFlag},
			}
			changed := false
			for _, f := range flags {
				changed = changed || cmd.Flags().Changed(f.name)
			}
			if !changed {
				return fmt.Errorf("nothing to change: pass --name, --input or --output")
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			idx, err := parseIndex(args[0], s.table.Len())
			if err != nil {
				return err
			}
			row, err := s.table.Row(idx)
			if err != nil {
				return err
			}
			if !row.Editing {
				if err := s.table.ToggleEdit(cmd.Context(), idx); err != nil {
					return err
				}
			}
			for _, f := range flags {
				if !cmd.Flags().Changed(f.name) {
					continue
				}
				if err := s.table.EditField(idx, f.field, *f.value); err != nil {
					return err
				}
			}
			if err := s.table.ToggleEdit(cmd.Context(), idx); err != nil {
				return fmt.Errorf("saving row: %w", err)
			}
			return printRow(cmd, s.table, idx, "saved")
		},
	}

	cmd.Flags().StringVar(&nameFlag, "name", "", "model name")
	cmd.Flags().StringVar(&inputFlag, "input", "", "input price in the current unit")
	cmd.Flags().StringVar(&outputFlag, "output", "", "output price in the current unit")
	return cmd
}

func deleteCmd() *cobra.Command {
	var yesFlag bool

	cmd := &cobra.Command{
		Use:   "delete <row>",
		Short: "Remove a row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			idx, err := parseIndex(args[0], s.table.Len())
			if err != nil {
				return err
			}
			row, err := s.table.Row(idx)
			if err != nil {
				return err
			}
			deleted, err := s.table.DeleteRow(cmd.Context(), idx, confirmer(yesFlag, describeRow(idx, row)))
			if err != nil {
				return err
			}
			if !deleted {
				return errNotConfirmed
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted row %d (%s)\n", idx+1, row.ModelName)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "delete without asking")
	return cmd
}

func toggleUnitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-unit",
		Short: "Switch prices between per-1K and per-1M tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.table.ToggleUnit(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "prices are now per %s tokens\n", s.table.Unit())
			return nil
		},
	}
}

func resetCmd() *cobra.Command {
	var yesFlag bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard all rows and restore the built-in list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			done, err := s.table.ResetData(cmd.Context(), confirmer(yesFlag, fmt.Sprintf("%d rows will be replaced", s.table.Len())))
			if err != nil {
				return err
			}
			if !done {
				return errNotConfirmed
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reset to %d rows per %s tokens\n", s.table.Len(), s.table.Unit())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "reset without asking")
	return cmd
}

func exportCmd() *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the table to stdout",
		Long: `Write the table to stdout. json is the stored form of the table.
yaml is a seed file (prices per 1K tokens) that seed.path can point at.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			var data []byte
			switch formatFlag {
			case "json":
				data, err = pricing.Encode(s.table.Rows())
			case "yaml":
				data, err = seed.Marshal(seedEntries(s.table))
			default:
				return fmt.Errorf("unknown format %q: use json or yaml", formatFlag)
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := out.Write(data); err != nil {
				return err
			}
			if len(data) > 0 && data[len(data)-1] != '\n' {
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "json", "output format: json, yaml")
	return cmd
}

// seedEntries converts the table to seed entries priced per 1K tokens.
func seedEntries(tbl *pricing.Table) []seed.Entry {
	unit := tbl.Unit()
	rows := tbl.Rows()
	entries := make([]seed.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, seed.Entry{
			ModelName:   r.ModelName,
			InputPrice:  multiplier.Rescale(r.InputPrice, unit, multiplier.PerThousand),
			OutputPrice: multiplier.Rescale(r.OutputPrice, unit, multiplier.PerThousand),
		})
	}
	return entries
}

func printRow(cmd *cobra.Command, tbl *pricing.Table, idx int, verb string) error {
	row, err := tbl.Row(idx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, describeRow(idx, row))
	return nil
}
