package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erazemk/inventory/internal/seed"
)

var populatePassword string

var populateCmd = &cobra.Command{
	Use:   "populate",
	Short: "Fill the database with sample categories and items",
	Long: `Create sample categories and items, granting each one to the access
record that owns the given password. The password must already exist.`,
	Args: cobra.NoArgs,
	RunE: runPopulate,
}

func init() {
	populateCmd.Flags().StringVarP(&populatePassword, "password", "p", "", "existing access password (required)")
	populateCmd.MarkFlagRequired("password")
}

func runPopulate(cmd *cobra.Command, args []string) error {
	st, database, err := openStore()
	if err != nil {
		return err
	}
	defer database.Close()

	res, err := seed.Populate(context.Background(), st, populatePassword)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %d categories and %d items.\n", res.Categories, res.Items)
	return nil
}
