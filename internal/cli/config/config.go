// Package config loads the configuration of the sheetjson command.
package config

import (
	"fmt"
	"slices"

	"golang.org/x/text/language"

	"github.com/domonda/go-sheetjson"
)

// Default configuration values.
const (
	DefaultOutput      = "table"
	DefaultLang        = "en"
	DefaultConcurrency = 4
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
)

// Outputs lists the valid output formats.
var Outputs = []string{"table", "json", "html"}

// Config is the configuration of the sheetjson command.
type Config struct {
	// TemplateFile is the path of a YAML template file.
	// Relative paths from a config file are resolved
	// relative to the directory of the config file.
	TemplateFile string `koanf:"template_file"`
	// Lang is the BCP 47 language of error messages.
	Lang string `koanf:"lang"`
	// Output format of imported records: table, json or html.
	Output string `koanf:"output"`
	// Strict lets checks returning false fail.
	Strict bool `koanf:"strict"`
	// Concurrency is the maximum number of files imported in parallel.
	Concurrency int `koanf:"concurrency"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	// Templates are loaded from TemplateFile
	// or the templates list of the config file.
	Templates []sheetjson.Template `koanf:"-"`
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if !slices.Contains(Outputs, c.Output) {
		return fmt.Errorf("invalid output %q, must be one of %v", c.Output, Outputs)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if _, err := language.Parse(c.Lang); err != nil {
		return fmt.Errorf("invalid lang %q: %w", c.Lang, err)
	}
	return nil
}

// Language returns the parsed Lang or language.English.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.Lang)
	if err != nil {
		return language.English
	}
	return tag
}

// Processor returns a sheetjson.Processor for the configuration.
func (c *Config) Processor(options ...sheetjson.Option) *sheetjson.Processor {
	if c.Strict {
		options = append(options, sheetjson.WithStrictChecks())
	}
	return sheetjson.NewProcessor(options...)
}

// Template returns the template for sheetName
// or the first template if sheetName is empty.
func (c *Config) Template(sheetName string) (sheetjson.Template, bool) {
	for _, tmpl := range c.Templates {
		if sheetName == "" || tmpl.SheetName == sheetName {
			return tmpl, true
		}
	}
	return sheetjson.Template{}, false
}
