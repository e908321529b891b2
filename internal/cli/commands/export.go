package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	fs "github.com/ungerik/go-fs"

	"github.com/domonda/go-sheetjson"
	"github.com/domonda/go-sheetjson/exceltable"
	"github.com/domonda/go-sheetjson/htmltable"
	"github.com/domonda/go-sheetjson/internal/cli/config"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var filename, sheetname string
	cmd := &cobra.Command{
		Use:   "export <records.json|->",
		Short: "Export JSON records to a spreadsheet file",
		Long: `Export a JSON array of records to a single sheet Excel file.

The columns are taken from the configured template of --sheet,
or the first template if --sheet is not set.
Without template all record keys are exported in sorted order.
Use - to read the records from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			var records []sheetjson.Record
			if err := json.Unmarshal(data, &records); err != nil {
				return fmt.Errorf("decoding records from %s: %w", args[0], err)
			}
			cfg := config.FromContext(cmd.Context())
			tmpl, _ := cfg.Template(sheetname)
			if sheetname == "" {
				sheetname = tmpl.SheetName
			}
			if err := exceltable.WriteRecords(records, tmpl.Header, filename, sheetname); err != nil {
				return err
			}
			config.GetLogger(cmd.Context()).Info("exported records", "records", len(records), "file", filename)
			return nil
		},
	}
	cmd.Flags().StringVarP(&filename, "file", "f", exceltable.DefaultFilename, "Excel file to write")
	cmd.Flags().StringVarP(&sheetname, "sheet", "s", "", "Sheet name and template selection")
	return cmd
}

// NewFromHTMLCommand creates the from-html command.
func NewFromHTMLCommand() *cobra.Command {
	var filename, sheetname, id string
	cmd := &cobra.Command{
		Use:   "from-html <file.html|->",
		Short: "Export an HTML table to a spreadsheet file",
		Long: `Export the first <table> element of an HTML document,
or the one with the id set by --id, to a single sheet Excel file.

The first table row is used as header row and the table caption as sheet name
if --sheet is not set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			view, err := htmltable.ParseTableID(bytes.NewReader(data), id)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if err := exceltable.WriteTable(view, filename, sheetname); err != nil {
				return err
			}
			config.GetLogger(cmd.Context()).Info("exported HTML table", "rows", view.NumRows(), "file", filename)
			return nil
		},
	}
	cmd.Flags().StringVarP(&filename, "file", "f", exceltable.DefaultFilename, "Excel file to write")
	cmd.Flags().StringVarP(&sheetname, "sheet", "s", "", "Sheet name, defaults to the table caption")
	cmd.Flags().StringVar(&id, "id", "", "id attribute of the table element")
	return cmd
}

// readInput reads the file at path or standard input for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	file := fs.File(path)
	if !file.Exists() {
		return nil, &sheetjson.Error{Kind: sheetjson.FileNotFound, File: path}
	}
	return file.ReadAllContext(cmd.Context())
}
