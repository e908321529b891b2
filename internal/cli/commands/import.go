package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	fs "github.com/ungerik/go-fs"
	"golang.org/x/sync/errgroup"

	"github.com/domonda/go-sheetjson"
	"github.com/domonda/go-sheetjson/exceltable"
	"github.com/domonda/go-sheetjson/internal/cli/config"
)

// fileImport is the outcome of importing one file.
type fileImport struct {
	Path    string             `json:"file"`
	Results []sheetjson.Result `json:"results,omitempty"`
	Errors  []string           `json:"errors,omitempty"`

	err error
}

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>...",
		Short: "Import spreadsheet files as validated records",
		Long: `Import spreadsheet files and validate their sheets with the configured templates.

Files are imported in parallel, limited by --concurrency.
Without templates the first sheet of every file is returned without validation.
Validation errors are reported per file in the language set by --lang.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	var (
		ctx       = cmd.Context()
		cfg       = config.FromContext(ctx)
		logger    = config.GetLogger(ctx)
		processor = cfg.Processor(sheetjson.WithLogger(logger))
		imports   = make([]fileImport, len(args))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i, path := range args {
		g.Go(func() error {
			start := time.Now()
			results, err := importFile(gctx, processor, path, cfg.Templates)
			imports[i] = fileImport{Path: path, Results: results, err: err}
			if err != nil {
				imports[i].Errors = sheetjson.LocalizeError(err, cfg.Language())
			}
			logger.Debug("imported file", "file", path, "duration", time.Since(start), "failed", err != nil)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := renderImports(cmd, cfg, imports); err != nil {
		return err
	}

	failed := 0
	for _, imp := range imports {
		if imp.err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to import", failed, len(imports))
	}
	return nil
}

func importFile(ctx context.Context, processor *sheetjson.Processor, path string, templates []sheetjson.Template) ([]sheetjson.Result, error) {
	file := fs.File(path)
	if !file.Exists() {
		return nil, &sheetjson.Error{Kind: sheetjson.FileNotFound, File: path}
	}
	return exceltable.LoadWith(ctx, processor, file, templates...)
}
