package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	fs "github.com/ungerik/go-fs"

	"github.com/domonda/go-sheetjson"
	"github.com/domonda/go-sheetjson/exceltable"
	"github.com/domonda/go-sheetjson/templatefile"
)

// NewScaffoldCommand creates the scaffold command.
func NewScaffoldCommand() *cobra.Command {
	var filename string
	cmd := &cobra.Command{
		Use:   "scaffold <file.xlsx> [sheet...]",
		Short: "Generate a template file from a spreadsheet",
		Long: `Generate a YAML template file from the header rows of a spreadsheet.

Column types are derived from the first non empty value of every column
and columns with a value in every row are marked as required.
All sheets are scaffolded if no sheet names are passed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := fs.File(args[0])
			if !file.Exists() {
				return &sheetjson.Error{Kind: sheetjson.FileNotFound, File: args[0]}
			}
			wb, err := exceltable.ReadFileWorkbook(cmd.Context(), file)
			if err != nil {
				return err
			}
			defs, err := templatefile.Scaffold(wb, args[1:]...)
			if err != nil {
				return err
			}
			data, err := templatefile.Marshal(defs)
			if err != nil {
				return err
			}
			if filename == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := fs.File(filename).WriteAll(data); err != nil {
				return fmt.Errorf("writing %s: %w", filename, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&filename, "file", "f", "", "Template file to write, standard output if empty")
	return cmd
}
