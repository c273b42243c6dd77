package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greenlens/claims-cli/internal/index"
)

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "List companies present in the evidence store",
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := index.Open(cfg.Index.VectorPath, cfg.Index.MetaPath)
		if err != nil {
			return err
		}

		for _, c := range idx.Companies() {
			fmt.Println(c)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(companiesCmd)
}
