package devsite

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	DC      string     `xml:"xmlns:dc,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title   string  `xml:"title"`
	Link    string  `xml:"link"`
	Creator string  `xml:"dc:creator"`
	PubDate string  `xml:"pubDate"`
	GUID    rssGUID `xml:"guid"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

func (a *App) feed(posts []BlogPost) rssXML {
	base := a.Config.URL
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		postURL := BuildURL(base, "posts", p.Slug)
		items = append(items, rssItem{
			Title:   p.Title,
			Link:    postURL,
			Creator: p.Author,
			PubDate: p.PublishedTime.UTC().Format(time.RFC1123Z),
			GUID:    rssGUID{IsPermaLink: true, Value: postURL},
		})
	}
	ch := rssChannel{
		Title:       a.Config.Title,
		Link:        BuildURL(base),
		Description: a.Config.Description,
		Items:       items,
	}
	if len(posts) > 0 {
		// posts arrive newest first
		ch.LastBuildDate = posts[0].PublishedTime.UTC().Format(time.RFC1123Z)
	}
	return rssXML{
		Version: "2.0",
		DC:      "http://purl.org/dc/elements/1.1/",
		Channel: ch,
	}
}

func (a *App) renderRSS(c echo.Context, posts []BlogPost) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(a.feed(posts))
}
