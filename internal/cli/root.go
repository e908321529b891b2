// Package cli provides the command-line interface of sheetjson.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/domonda/go-sheetjson/internal/cli/commands"
	"github.com/domonda/go-sheetjson/internal/cli/config"
	"github.com/domonda/go-sheetjson/internal/logging"
)

// Version information (set at build time).
var Version = "0.1.0"

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string
	rootCmd := &cobra.Command{
		Use:   "sheetjson",
		Short: "sheetjson - spreadsheet rows to validated records",
		Long: `sheetjson imports spreadsheet rows as validated JSON records
using templates that declare the expected columns, their types and checks,
and exports records back to spreadsheet files.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
			logger.Debug("loaded configuration",
				"templates", len(cfg.Templates),
				"output", cfg.Output,
				"lang", cfg.Lang,
			)

			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./sheetjson.yaml)")
	rootCmd.PersistentFlags().StringP("template-file", "t", "", "YAML template file")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (table|json|html)")
	rootCmd.PersistentFlags().String("lang", "", "Language of error messages (e.g. en, zh)")
	rootCmd.PersistentFlags().Bool("strict", false, "Let checks returning false fail")
	rootCmd.PersistentFlags().IntP("concurrency", "j", 0, "Maximum number of files imported in parallel")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.Outputs, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewImportCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewFromHTMLCommand())
	rootCmd.AddCommand(commands.NewScaffoldCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
