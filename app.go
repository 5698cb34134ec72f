// Package devsite is a personal website and blog engine built with Go, Echo
// and templ. Posts are Markdown files with front matter; a build validates
// them, renders them and writes a SQLite index that the server reads from.
package devsite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/sshear/devsite/content"
	"github.com/sshear/devsite/markdown"
	"github.com/sshear/devsite/views"
)

// App is the central application. It wires together the loader, markdown
// renderer, index store, cache, handlers and middleware.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Log      *log.Logger
	Store    *Store
	Cache    *PostCache
	Loader   *content.Loader
	Markdown *markdown.Renderer

	site         views.Site
	dateFormat   views.DateFormat
	syntaxCSS    string
	buildMu      sync.Mutex
	limiter      *Limiter
	customRoutes []func(*App)
}

// New creates an App with the given configuration. Nothing is opened until
// Setup.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	logger := log.New("devsite")
	logger.SetLevel(log.INFO)
	logger.SetHeader("${time_rfc3339} ${level} ${prefix}")

	e := echo.New()
	e.HideBanner = true
	e.Logger = logger

	a := &App{
		Config:     cfg,
		Echo:       e,
		Log:        logger,
		Markdown:   markdown.New(),
		site:       cfg.Site(),
		dateFormat: cfg.DateFormat(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup opens the index, prepares the generated assets and registers
// middleware and routes. It does not build; call Rebuild for that.
func (a *App) Setup() error {
	if err := a.Config.Validate(); err != nil {
		return err
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("devsite: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(a.Store, a.Config.CacheTTL)

	css, err := a.Markdown.StyleSheet()
	if err != nil {
		return fmt.Errorf("devsite: syntax stylesheet: %w", err)
	}
	a.syntaxCSS = css

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/assets/site.css", a.handleSiteCSS)
	e.GET("/assets/syntax.css", a.handleSyntaxCSS)

	// User's static assets
	e.Static("/public", a.Config.StaticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/page/:n", a.handlePage)
	e.GET("/posts", handlePostsRedirect)
	e.GET("/posts/*", a.handlePost)

	if a.Config.LightAndDarkMode {
		a.limiter = NewLimiter(30, time.Minute)
		e.POST("/theme", a.handleThemeToggle, a.limiter.Middleware)
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.limiter != nil {
		a.limiter.Close()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
