package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	watch      bool
	serverAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the site and serve it",
	Long: `serve performs a full build, then starts the web server. With --watch it
also watches the content directory and rebuilds after every change; a failed
rebuild keeps the previous build online.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		if serverAddr != "" {
			app.Config.Addr = serverAddr
		}
		if err := app.Setup(); err != nil {
			return err
		}
		defer app.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if _, err := app.Rebuild(ctx); err != nil {
			return err
		}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(app.Start)
		if watch {
			g.Go(func() error {
				return app.Watch(ctx, 500*time.Millisecond)
			})
		}
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return app.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild when content changes")
	serveCmd.Flags().StringVar(&serverAddr, "addr", "", "listen address (overrides the config)")
	rootCmd.AddCommand(serveCmd)
}
