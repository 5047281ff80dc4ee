package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"time"

	"github.com/lysyi3m/link-digest/app/database"
)

type Generator struct {
	site    Site
	selfURL string
	version string
}

// NewGenerator builds a generator for the feed served at baseURL + "/feed.xml".
func NewGenerator(site Site, baseURL, version string) *Generator {
	return &Generator{
		site:    site,
		selfURL: baseURL + "/feed.xml",
		version: version,
	}
}

func (g *Generator) Run(posts []database.Post) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", g.site.Title, 4)
	g.writeElement(&buf, "link", cmp.Or(g.site.Link, g.selfURL), 4)
	g.writeElement(&buf, "description", cmp.Or(g.site.Description, g.site.Title), 4)

	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(g.selfURL)))

	lastBuildDate := time.Now().In(time.Local)
	if len(posts) > 0 {
		lastBuildDate = posts[0].CreatedAt
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("Link-Digest/%s", g.version), 4)
	g.writeElement(&buf, "language", g.site.Language, 4)

	for _, post := range posts {
		g.writeItem(&buf, post)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, post database.Post) {
	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"false\">")
	xml.EscapeText(buf, []byte(post.ID))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", post.Title, 6)
	g.writeElement(buf, "link", post.URL, 6)
	g.writeElement(buf, "description", cmp.Or(post.Summary, "No summary available."), 6)
	g.writeElement(buf, "pubDate", post.CreatedAt.Format(time.RFC1123Z), 6)

	for _, keyword := range post.Keywords {
		g.writeElement(buf, "category", keyword, 6)
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
