package devsite

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/sshear/devsite/views"
)

// SiteConfig holds all configuration for the site. It is built once at
// startup and handed to every consumer; nothing mutates it afterwards.
type SiteConfig struct {
	Title            string `mapstructure:"title" validate:"required"`
	Author           string `mapstructure:"author" validate:"required"`
	Description      string `mapstructure:"description"`
	Desc             string `mapstructure:"desc"` // alternative name for Description
	LightAndDarkMode bool   `mapstructure:"lightAndDarkMode"`
	PostPerPage      int    `mapstructure:"postPerPage" validate:"gte=1"`

	URL          string        `mapstructure:"url" validate:"omitempty,url"` // canonical URL (default "http://localhost:4321")
	Addr         string        `mapstructure:"addr"`                         // listen address (default ":4321")
	ContentDir   string        `mapstructure:"contentDir"`                   // blog collection (default "content/blog")
	StaticDir    string        `mapstructure:"staticDir"`                    // user static assets (default "public")
	DatabasePath string        `mapstructure:"databasePath"`                 // SQLite index (default "data/site.db")
	CacheTTL     time.Duration `mapstructure:"cacheTTL"`                     // post cache TTL (default 5m)

	SessionSecret string `mapstructure:"sessionSecret" validate:"required_if=LightAndDarkMode true"`
	CookieSecure  bool   `mapstructure:"cookieSecure"`

	DateLayout string `mapstructure:"dateLayout"` // Go layout for post dates
	TimeZone   string `mapstructure:"timeZone"`   // IANA zone for post dates (default "UTC")
}

func (c *SiteConfig) setDefaults() {
	if c.Description == "" {
		c.Description = c.Desc
	}
	c.Desc = c.Description
	if c.PostPerPage == 0 {
		c.PostPerPage = 10
	}
	if c.URL == "" {
		c.URL = "http://localhost:4321"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":4321"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content/blog"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/site.db"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.DateLayout == "" {
		c.DateLayout = views.DefaultDateLayout
	}
	if c.TimeZone == "" {
		c.TimeZone = "UTC"
	}
}

// Validate checks the configuration after defaults are applied.
func (c *SiteConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("devsite: invalid config: %s", strings.Join(msgs, ", "))
		}
		return fmt.Errorf("devsite: invalid config: %w", err)
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("devsite: invalid config: timeZone: %w", err)
	}
	return nil
}

// Site returns the template-facing view of the configuration.
func (c SiteConfig) Site() views.Site {
	return views.Site{
		Title:            c.Title,
		Author:           c.Author,
		Description:      c.Description,
		LightAndDarkMode: c.LightAndDarkMode,
		PostPerPage:      c.PostPerPage,
	}
}

// DateFormat returns the formatter used for publication times.
func (c SiteConfig) DateFormat() views.DateFormat {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		loc = time.UTC
	}
	return views.DateFormat{Layout: c.DateLayout, Location: loc}
}

// envKeys maps config keys to the environment variables that override them.
var envKeys = map[string]string{
	"title":            "SITE_TITLE",
	"author":           "SITE_AUTHOR",
	"description":      "SITE_DESCRIPTION",
	"lightAndDarkMode": "SITE_LIGHT_AND_DARK_MODE",
	"postPerPage":      "SITE_POST_PER_PAGE",
	"url":              "SITE_URL",
	"addr":             "SITE_ADDR",
	"contentDir":       "SITE_CONTENT_DIR",
	"staticDir":        "SITE_STATIC_DIR",
	"databasePath":     "SITE_DATABASE_PATH",
	"cacheTTL":         "SITE_CACHE_TTL",
	"sessionSecret":    "SITE_SESSION_SECRET",
	"cookieSecure":     "SITE_COOKIE_SECURE",
	"dateLayout":       "SITE_DATE_LAYOUT",
	"timeZone":         "SITE_TIME_ZONE",
}

// LoadConfig reads the site configuration from path (YAML, TOML or JSON by
// extension) and applies SITE_* environment overrides. An empty path looks
// for site.{yaml,yml,toml,json} in the working directory and falls back to
// environment only. Defaults are applied and the result validated.
func LoadConfig(path string) (SiteConfig, error) {
	v := viper.New()
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return SiteConfig{}, fmt.Errorf("devsite: bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("site")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			if os.IsNotExist(err) {
				return SiteConfig{}, fmt.Errorf("devsite: config file %s not found", path)
			}
			return SiteConfig{}, fmt.Errorf("devsite: read config: %w", err)
		}
	}

	var cfg SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("devsite: decode config: %w", err)
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
