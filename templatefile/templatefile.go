// Package templatefile loads sheetjson templates from YAML files.
//
// A template file lists the templates to apply to a workbook:
//
//	templates:
//	  - sheet: People
//	    columns:
//	      - header: Name
//	        key: name
//	        require: true
//	        check: 'len(name) <= 50 ? true : "name is too long"'
//	      - header: Age
//	        key: age
//	        type: Number
//	      - header: Note
//	        require: false
//	  - sheet: Raw
//
// A template without columns returns the rows of its sheet without validation.
//
// The check and format options are expressions
// of the github.com/expr-lang/expr language compiled when loading.
// A check is evaluated with the mapped record fields as variables,
// record keys that are no valid identifiers can be accessed with $env["key"].
// A format is evaluated with the variables value, row, col and record.
package templatefile

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	fs "github.com/ungerik/go-fs"

	"github.com/domonda/go-sheetjson"
)

// File is the content of a template file.
type File struct {
	Templates []TemplateDef `koanf:"templates" yaml:"templates"`
}

// TemplateDef declares a sheetjson.Template.
type TemplateDef struct {
	Sheet   string      `koanf:"sheet"   yaml:"sheet,omitempty"`
	Columns []ColumnDef `koanf:"columns" yaml:"columns,omitempty"`
}

// ColumnDef declares a sheetjson.Column.
type ColumnDef struct {
	Header  string            `koanf:"header"  yaml:"header"`
	Key     string            `koanf:"key"     yaml:"key,omitempty"`
	Type    sheetjson.TypeTag `koanf:"type"    yaml:"type,omitempty"`
	Require *bool             `koanf:"require" yaml:"require,omitempty"`
	Check   string            `koanf:"check"   yaml:"check,omitempty"`
	Label   string            `koanf:"label"   yaml:"label,omitempty"`
	Default any               `koanf:"default" yaml:"default,omitempty"`
	Format  string            `koanf:"format"  yaml:"format,omitempty"`
}

// Load reads the template file at path and compiles its templates.
//
// A sheetjson.FileNotFound error is returned if there is no file at path.
func Load(path string) ([]sheetjson.Template, error) {
	if !fs.File(path).Exists() {
		return nil, &sheetjson.Error{Kind: sheetjson.FileNotFound, File: path}
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("error reading template file %s: %w", path, err)
	}
	templates, err := Unmarshal(k, "templates")
	if err != nil {
		return nil, fmt.Errorf("template file %s: %w", path, err)
	}
	return templates, nil
}

// Parse parses YAML template file data and compiles its templates.
func Parse(data []byte) ([]sheetjson.Template, error) {
	m, err := yaml.Parser().Unmarshal(data)
	if err != nil {
		return nil, err
	}
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(m, ""), nil); err != nil {
		return nil, err
	}
	return Unmarshal(k, "templates")
}

// Unmarshal decodes the list of template declarations at path
// of a koanf instance and compiles them.
// This way templates can be part of a larger configuration.
//
// Unknown options and type names result in
// an error wrapping sheetjson.InvalidSchema.
func Unmarshal(k *koanf.Koanf, path string) ([]sheetjson.Template, error) {
	var defs []TemplateDef
	err := k.UnmarshalWithConf(path, &defs, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.TextUnmarshallerHookFunc(),
			Result:           &defs,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
			TagName:          "koanf",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sheetjson.InvalidSchema, err)
	}
	return Compile(defs)
}

// Compile returns the templates for the declarations
// with their check and format expressions compiled.
func Compile(defs []TemplateDef) ([]sheetjson.Template, error) {
	templates := make([]sheetjson.Template, len(defs))
	for i, def := range defs {
		templates[i].SheetName = def.Sheet
		if def.Columns == nil {
			continue
		}
		schema := make(sheetjson.Schema, len(def.Columns))
		for c, colDef := range def.Columns {
			col, err := colDef.compile()
			if err != nil {
				return nil, &sheetjson.Error{
					Kind:   sheetjson.InvalidSchema,
					Sheet:  def.Sheet,
					Column: colDef.Header,
					Detail: err.Error(),
				}
			}
			schema[c] = col
		}
		if err := schema.Validate(def.Sheet); err != nil {
			return nil, err
		}
		templates[i].Header = schema
	}
	return templates, nil
}

func (def *ColumnDef) compile() (sheetjson.Column, error) {
	col := sheetjson.Column{
		Header:  def.Header,
		Key:     def.Key,
		Type:    def.Type,
		Label:   def.Label,
		Default: def.Default,
	}
	if def.Require != nil {
		col.Require = sheetjson.RequireFromBool(*def.Require)
	}
	if def.Check != "" {
		program, err := compileExpr(def.Check)
		if err != nil {
			return col, fmt.Errorf("check: %w", err)
		}
		col.Check = checkFunc(program)
	}
	if def.Format != "" {
		program, err := compileExpr(def.Format)
		if err != nil {
			return col, fmt.Errorf("format: %w", err)
		}
		col.Format = formatFunc(program)
	}
	return col, nil
}

func compileExpr(source string) (*vm.Program, error) {
	return expr.Compile(source, expr.Env(map[string]any{}), expr.AllowUndefinedVariables())
}

// checkFunc returns a sheetjson.CheckFunc evaluating program
// with the record fields as variables.
// An evaluation error is returned as message string
// which fails the check.
func checkFunc(program *vm.Program) sheetjson.CheckFunc {
	return func(record sheetjson.Record) any {
		result, err := expr.Run(program, map[string]any(record))
		if err != nil {
			return err.Error()
		}
		return result
	}
}

// formatFunc returns a sheetjson.FormatFunc evaluating program.
// The value is exported unchanged if the evaluation fails.
func formatFunc(program *vm.Program) sheetjson.FormatFunc {
	return func(value any, rowIndex, colIndex int, record sheetjson.Record) any {
		result, err := expr.Run(program, map[string]any{
			"value":  value,
			"row":    rowIndex,
			"col":    colIndex,
			"record": map[string]any(record),
		})
		if err != nil {
			return value
		}
		return result
	}
}
