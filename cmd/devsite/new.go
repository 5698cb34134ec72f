package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sshear/devsite"
	"github.com/sshear/devsite/scaffold"
)

var newAuthor string

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new site directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNew(cmd, args[0])
	},
}

func runNew(cmd *cobra.Command, name string) error {
	slug := devsite.Slugify(filepath.Base(name))
	if slug == "" {
		return fmt.Errorf("%q does not make a usable directory name", name)
	}
	dir := filepath.Join(filepath.Dir(name), slug)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Creating new site: %s\n\n", dir)
	if err := scaffold.Generate(dir, scaffold.NewData(dir, newAuthor, time.Now()), out); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Done! Next steps:")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  cd %s\n", dir)
	fmt.Fprintln(out, "  cp .env.example .env")
	fmt.Fprintln(out, "  devsite serve --watch")
	return nil
}

func init() {
	newCmd.Flags().StringVar(&newAuthor, "author", "", "author name written to site.yaml")
	rootCmd.AddCommand(newCmd)
}
