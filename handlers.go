package devsite

import (
	"errors"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sshear/devsite/markdown"
	"github.com/sshear/devsite/theme"
	"github.com/sshear/devsite/views"
)

// chrome collects the per-request data the layout needs, applying the
// visitor's persisted theme to the root class.
func (a *App) chrome(c echo.Context) views.Chrome {
	ch := views.Chrome{
		Site:      a.site,
		Path:      c.Request().URL.Path,
		Theme:     theme.Light,
		CSRFToken: CsrfToken(c),
	}
	if a.Config.LightAndDarkMode {
		var root theme.ClassList
		pref := theme.Mount(newSessionThemeStore(c), &root, c.Logger())
		ch.Theme = pref.Current()
		ch.RootClass = root.String()
	}
	return ch
}

func (a *App) handleHome(c echo.Context) error {
	return a.renderPage(c, 1)
}

func (a *App) handlePage(c echo.Context) error {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 1 {
		return echo.ErrNotFound
	}
	if n == 1 {
		return c.Redirect(http.StatusMovedPermanently, "/")
	}
	return a.renderPage(c, n)
}

func (a *App) renderPage(c echo.Context, n int) error {
	posts, pages, err := a.Cache.Page(c.Request().Context(), n, a.Config.PostPerPage)
	if errors.Is(err, ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	entries := views.PostEntries(Posts(posts), a.dateFormat)
	return Render(c, views.Home(a.chrome(c), entries, views.Pagination{Page: n, Pages: pages}))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("*")
	if s, err := url.PathUnescape(slug); err == nil {
		slug = s
	}
	post, err := a.Cache.GetPost(c.Request().Context(), slug)
	if errors.Is(err, ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	article := views.NewArticle(post.Post, a.dateFormat)
	article.Body = markdown.HTML(post.HTML)
	return Render(c, views.Post(a.chrome(c), article))
}

func (a *App) handleThemeToggle(c echo.Context) error {
	var root theme.ClassList
	pref := theme.Mount(newSessionThemeStore(c), &root, c.Logger())
	pref.Toggle()

	if c.Request().Header.Get("HX-Request") == "true" {
		c.Response().Header().Set("HX-Refresh", "true")
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, SafeRedirect(c.FormValue("next")))
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleSiteCSS(c echo.Context) error {
	data, err := EmbeddedAssets.ReadFile("embedded/site.css")
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "text/css; charset=utf-8", data)
}

func (a *App) handleSyntaxCSS(c echo.Context) error {
	return c.Blob(http.StatusOK, "text/css; charset=utf-8", []byte(a.syntaxCSS))
}

func handlePostsRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(filepath.Join(a.Config.StaticDir, "favicon.svg"))
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(filepath.Join(a.Config.StaticDir, "robots.txt"))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.chrome(c)))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(a.chrome(c)))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
