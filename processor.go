package sheetjson

import (
	"log/slog"
)

// Result is the outcome of processing one template.
type Result struct {
	// Name of the processed sheet
	Name string `json:"name"`
	// Data holds one record per non empty data row
	Data []Record `json:"data"`
}

// Processor applies templates to workbooks.
// A Processor is immutable and safe for concurrent use.
type Processor struct {
	logger       *slog.Logger
	strictChecks bool
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger for advisory notices.
// slog.Default() is used if not set or nil.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) { p.logger = logger }
}

// WithStrictChecks lets column checks returning false fail
// with a CheckFailed error, not only non bool results.
func WithStrictChecks() Option {
	return func(p *Processor) { p.strictChecks = true }
}

var defaultProcessor = NewProcessor()

// NewProcessor returns a Processor configured by options.
func NewProcessor(options ...Option) *Processor {
	p := new(Processor)
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *Processor) log() *slog.Logger {
	if p.logger == nil {
		return slog.Default()
	}
	return p.logger
}

// Process applies the templates to a workbook using
// a Processor with default options.
//
// See Processor.Process
func Process(wb *Workbook, templates ...Template) ([]Result, error) {
	return defaultProcessor.Process(wb, templates...)
}

// Process applies the templates to a workbook
// and returns one Result per template in template order.
//
// Without templates, the first sheet is returned without validation.
//
// Every template is processed independently:
// the sheet named by the template must exist,
// its header must contain the required columns of the schema
// and every data row is mapped with MapRow.
// The first error of a template aborts that template,
// the remaining templates are still processed.
// If any template failed, an *AggregateError
// with one error per failed template is returned
// and no results.
//
// A template without schema returns the rows of its sheet
// as records keyed by the header labels.
func (p *Processor) Process(wb *Workbook, templates ...Template) ([]Result, error) {
	if len(templates) == 0 {
		templates = []Template{{}}
	}
	var (
		results = make([]Result, 0, len(templates))
		errs    []error
	)
	for _, tmpl := range templates {
		result, err := p.processTemplate(wb, tmpl)
		if err != nil {
			p.log().Debug("template failed", "sheet", result.Name, "error", err)
			errs = append(errs, err)
			continue
		}
		results = append(results, result)
	}
	if len(errs) > 0 {
		return nil, &AggregateError{Errs: errs}
	}
	return results, nil
}

func (p *Processor) processTemplate(wb *Workbook, tmpl Template) (result Result, err error) {
	result.Name = tmpl.SheetName
	if result.Name == "" {
		result.Name = wb.FirstSheetName()
	}
	if err := tmpl.Header.Validate(result.Name); err != nil {
		return result, err
	}
	sheet, ok := wb.Sheet(result.Name)
	if !ok {
		return result, &Error{Kind: SheetNotFound, Sheet: result.Name}
	}
	if tmpl.Header != nil {
		err = ValidateHeader(result.Name, SheetHeader(sheet), tmpl.Header.RequiredHeaders())
		if err != nil {
			return result, err
		}
	}
	rows := SheetRows(sheet)
	result.Data = make([]Record, len(rows))
	if tmpl.Header == nil {
		p.log().Info("no header schema for sheet, returning rows without validation", "sheet", result.Name)
		for i, row := range rows {
			result.Data[i] = row.Record()
		}
		return result, nil
	}
	for i, row := range rows {
		result.Data[i], err = p.MapRow(result.Name, row, tmpl.Header, i)
		if err != nil {
			return result, err
		}
	}
	return result, nil
}
