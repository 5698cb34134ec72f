package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate every post without writing the index",
	Long: `check loads the content collection and validates each post's front
matter. Every failing file is reported, not just the first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		posts, err := app.Check(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d post(s) OK in %s\n", len(posts), app.Config.ContentDir)
		return nil
	},
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Validate, render and index every post",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		if err := app.Setup(); err != nil {
			return err
		}
		defer app.Close()

		res, err := app.Rebuild(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "built %d post(s) into %s in %s\n",
			res.Posts, app.Config.DatabasePath, res.Duration.Round(time.Millisecond))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(buildCmd)
}
