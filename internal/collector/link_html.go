package collector

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var _ LinkCollector = (*HTMLLinkCollector)(nil)

// defaultLinkAttributes are the attributes that hold a url, whatever the element is.
var defaultLinkAttributes = []string{
	"action", "archive", "background", "cite", "classid", "codebase", "data",
	"dynsrc", "href", "longdesc", "lowsrc", "profile", "src", "usemap",
}

// HTMLLinkCollector is a collector that collects links from an HTML document.
//
//	c := NewHTMLLinkCollector()
//	doc, err := c.Parse(r, base)
//	if err != nil {
//		return nil, err
//	}
//
//	for _, l := range c.GetLinks(doc) {
//		fmt.Println(l.Attribute, l.URL)
//	}
type HTMLLinkCollector struct {
	attributes map[string]struct{}
}

// Parse parses an HTML document and makes all its links absolute.
//
// The links are resolved against the <base href> of the document if there is one, otherwise against base.
func (c HTMLLinkCollector) Parse(r io.Reader, base *url.URL) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not parse html doc: %w", err)
	}

	doc.Url = resolveBase(doc, base)

	if doc.Url != nil {
		c.makeLinksAbsolute(doc)
	}

	return doc, nil
}

// GetLinks lists every link occurrence of the document, in document order.
//
// Links that are not absolute after parsing, for example because they could not be resolved, are skipped.
func (c HTMLLinkCollector) GetLinks(doc *goquery.Document) []Link {
	links := make([]Link, 0, initialLinksCapacity)

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range s.Nodes[0].Attr {
			if _, ok := c.attributes[attr.Key]; !ok {
				continue
			}

			u, err := url.Parse(attr.Val)
			if err != nil || !u.IsAbs() {
				continue
			}

			links = append(links, Link{
				Element:   s,
				Attribute: attr.Key,
				URL:       attr.Val,
			})
		}
	})

	// Reduce memory allocation. GC will clean up the old links slice.
	result := make([]Link, len(links))
	copy(result, links)

	return result
}

func (c HTMLLinkCollector) makeLinksAbsolute(doc *goquery.Document) {
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		n := s.Nodes[0]

		for i, attr := range n.Attr {
			if _, ok := c.attributes[attr.Key]; !ok {
				continue
			}

			if abs, ok := resolve(doc.Url, attr.Val); ok {
				n.Attr[i].Val = abs
			}
		}
	})
}

// resolveBase returns the url that relative links of the document are resolved against.
func resolveBase(doc *goquery.Document, base *url.URL) *url.URL {
	href, ok := doc.Find("base[href]").First().Attr("href")
	if !ok {
		return base
	}

	ref, err := url.Parse(cleanLink(href))
	if err != nil {
		return base
	}

	if base == nil {
		if ref.IsAbs() {
			return ref
		}

		return nil
	}

	return base.ResolveReference(ref)
}

func resolve(base *url.URL, link string) (string, bool) {
	ref, err := url.Parse(cleanLink(link))
	if err != nil {
		return "", false
	}

	return base.ResolveReference(ref).String(), true
}

// cleanLink removes the characters a browser ignores in a link.
//
// In HTML, \n does not mean new line. Browser will ignore it, so link like "\nhttps://example.org/\npath" will be interpreted
// as "https://example.org/path".
func cleanLink(link string) string {
	return strings.TrimSpace(strings.NewReplacer("\n", "", "\r", "", "\t", "").Replace(link))
}

// NewHTMLLinkCollector creates a new collector for collecting links from an HTML document.
//
// Without attributes, the collector looks at every attribute that may hold a url, for example href, src or action.
func NewHTMLLinkCollector(attributes ...string) *HTMLLinkCollector {
	if len(attributes) == 0 {
		attributes = defaultLinkAttributes
	}

	c := &HTMLLinkCollector{
		attributes: make(map[string]struct{}, len(attributes)),
	}

	for _, a := range attributes {
		c.attributes[a] = struct{}{}
	}

	return c
}
