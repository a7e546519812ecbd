package main

import (
	"fmt"

	"github.com/ethanbaker/parlavoice/internal/api"
	"github.com/ethanbaker/parlavoice/pkg/catalog"
	"github.com/ethanbaker/parlavoice/pkg/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	catalogPath   string
	catalogColumn string
)

// catalogCmd loads the prompt catalog and prints it, to check a spreadsheet
// before running a collection
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the prompts loaded from the catalog spreadsheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := session.DefaultOptions()
		if optsPath := cfg.Get("EXERCISE_CONFIG_PATH"); optsPath != "" {
			var err error
			if opts, err = session.LoadOptions(optsPath); err != nil {
				return err
			}
		}

		path := catalogPath
		if path == "" {
			path = cfg.GetWithDefault("CATALOG_PATH", api.DefaultCatalogPath)
		}
		column := catalogColumn
		if column == "" {
			column = opts.CatalogColumn
		}

		prompts, err := catalog.NewLoader(column).Load(path)
		if err != nil {
			return err
		}
		if len(prompts) == 0 {
			return fmt.Errorf("%w: %s", session.ErrEmptyCatalog, path)
		}

		out := cmd.OutOrStdout()
		for i, prompt := range prompts {
			fmt.Fprintf(out, "%4d  %s\n", i+1, prompt)
		}
		logger.Info("catalog loaded", zap.String("path", path), zap.String("column", column), zap.Int("prompts", len(prompts)))

		return nil
	},
}

func init() {
	catalogCmd.Flags().StringVar(&catalogPath, "path", "", "Catalog file (overrides CATALOG_PATH)")
	catalogCmd.Flags().StringVar(&catalogColumn, "column", "", "Column holding the prompts")
}
