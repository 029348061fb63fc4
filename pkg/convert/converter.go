package convert

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// droppedSelector matches subtrees that never contribute readable
// content.
const droppedSelector = "script, style, noscript, iframe, template"

// Document is the structured form of a converted page.
type Document struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
	Links   []Link `json:"links,omitempty"`
}

// Link is one hyperlink extracted from a page.
type Link struct {
	Text string `json:"text,omitempty"`
	Href string `json:"href"`
}

// Empty reports whether the document carries no content at all.
func (d *Document) Empty() bool {
	return d.Title == "" && d.Content == "" && len(d.Links) == 0
}

// Converter renders HTML into markdown or a structured Document.
// The zero value is ready to use.
type Converter struct{}

// New creates a Converter.
func New() *Converter {
	return &Converter{}
}

// Markdown converts an HTML page to markdown. Empty or markup-only
// input yields an empty string.
func (c *Converter) Markdown(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}
	doc.Find(droppedSelector).Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		return "", nil
	}
	return renderBlocks(body.Nodes[0]), nil
}

// Document converts an HTML page to its structured form: the page
// title, the markdown-rendered content, and every hyperlink with a
// non-empty target. Empty input yields a zero Document, which
// marshals to an empty JSON object.
func (c *Converter) Document(rawHTML string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}
	doc.Find(droppedSelector).Remove()

	result := &Document{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	if body := doc.Find("body"); body.Length() > 0 {
		result.Content = renderBlocks(body.Nodes[0])
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		result.Links = append(result.Links, Link{
			Text: strings.TrimSpace(sel.Text()),
			Href: href,
		})
	})

	return result, nil
}
