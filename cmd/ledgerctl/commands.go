package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"colorledger/internal/i18n"
	"colorledger/internal/ingest"
	"colorledger/internal/ledger"
	"colorledger/internal/spreadsheet"
	"colorledger/internal/views/pages"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Import formulas from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			result, err := a.ledger.Import(cmd.Context(), args[0])
			switch {
			case err == nil:
				fmt.Fprintln(out, a.printer.Sprintf(i18n.ImportDone, result.ImportedCount))
				if result.Duplicates > 0 {
					fmt.Fprintf(out, "skipped %d duplicates\n", result.Duplicates)
				}
				return nil
			case errors.Is(err, ledger.ErrNoNewRecords):
				fmt.Fprintln(out, a.printer.Sprintf(i18n.ImportNoNewRecords))
				return nil
			case errors.Is(err, ledger.ErrInvalidRows):
				for _, msg := range a.printer.RowErrors(result.Errors) {
					fmt.Fprintln(cmd.ErrOrStderr(), msg)
				}
				return errors.New(a.printer.Sprintf(i18n.ImportInvalid))
			case errors.Is(err, ingest.ErrEmptySheet):
				return errors.New(a.printer.Sprintf(i18n.ImportEmpty))
			default:
				return fmt.Errorf("import %s: %w", args[0], err)
			}
		},
	}
}

func newTemplateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:         "template",
		Short:       "Write an empty import spreadsheet",
		Annotations: map[string]string{"offline": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" || output == "-" {
				return spreadsheet.WriteTemplate(cmd.OutOrStdout())
			}

			file, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := spreadsheet.WriteTemplate(file); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "template written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "formula_template.xlsx", "Destination file, - for stdout")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List formulas in notebook order",
		RunE: func(cmd *cobra.Command, args []string) error {
			formulas := a.ledger.List()
			if asJSON {
				return writeJSON(cmd, formulas)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SLOT\tRESULT CODE\tYARN TYPE\tYARN MODEL\tDATE\tBOOK\tINGREDIENTS")
			for _, formula := range formulas {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					pages.SlotLabel(formula.Page, formula.Row),
					formula.ResultCode,
					pages.DefaultDash(formula.YarnType),
					pages.DefaultDash(formula.YarnModel),
					pages.DefaultDash(formula.Date),
					formula.Book,
					strconv.Itoa(len(formula.Ingredients)),
				)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print formulas as JSON")
	return cmd
}

func newAnalyticsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Print the ledger summary as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd, a.ledger.Analytics())
		},
	}
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-json [db.json]",
		Short: "Import a legacy JSON export once",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Import.LegacyJSON
			if len(args) == 1 {
				path = args[0]
			}
			if strings.TrimSpace(path) == "" {
				return errors.New("no legacy file given")
			}

			count, err := a.ledger.MigrateLegacyJSON(cmd.Context(), path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %d formulas from %s\n", count, path)
			return nil
		},
	}
}

func newWipeCmd(a *app) *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete every formula",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.ledger.Wipe(cmd.Context(), code)
			switch {
			case err == nil:
				fmt.Fprintln(cmd.OutOrStdout(), a.printer.Sprintf(i18n.WipeDone))
				return nil
			case errors.Is(err, ledger.ErrWipeDisabled):
				return errors.New(a.printer.Sprintf(i18n.WipeDisabled))
			case errors.Is(err, ledger.ErrInvalidWipeCode):
				return errors.New(a.printer.Sprintf(i18n.WipeDenied))
			default:
				return err
			}
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Wipe confirmation code")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
