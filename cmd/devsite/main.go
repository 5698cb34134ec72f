package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sshear/devsite"
)

// version is set at build time via ldflags.
var version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "devsite",
	Short: "devsite - a personal site and blog engine",
	Long: `devsite builds a blog from Markdown files with YAML or TOML front matter,
validates every post, and serves the result with light and dark themes.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the devsite version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "devsite %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "site config file (default is ./site.yaml, or $SITE_CONFIG)")
	rootCmd.AddCommand(versionCmd)
}

// newApp loads the site configuration the commands share.
func newApp() (*devsite.App, error) {
	path := cfgFile
	if path == "" {
		path = devsite.EnvOr("SITE_CONFIG", "")
	}
	cfg, err := devsite.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return devsite.New(cfg), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
