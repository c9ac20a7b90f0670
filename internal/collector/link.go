package collector

import (
	"io"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// initialLinksCapacity is the initial capacity of the links slice, it does not mean this is the maximum capacity.
// It is just not recommended to have more than 100 links in a document due to SEO (Page Ranking) reason.
// Ref: https://moz.com/blog/how-many-links-is-too-many
const initialLinksCapacity = 100

// Link is one occurrence of a link in a document.
type Link struct {
	// Element is the element that carries the link.
	Element *goquery.Selection
	// Attribute is the name of the attribute that holds the link, for example "href" or "src".
	Attribute string
	// URL is the absolute target of the link.
	URL string
	// Pos is the offset of the link inside the attribute value.
	Pos int
}

// IsElement tells whether the link is carried by an element of the given tag.
func (l Link) IsElement(tag string) bool {
	if l.Element == nil || len(l.Element.Nodes) == 0 {
		return false
	}

	n := l.Element.Nodes[0]

	return n.Type == html.ElementNode && n.Data == tag
}

// LinkCollector turns a document body into a document and the links it contains.
type LinkCollector interface {
	// Parse parses r into a document whose links are resolved against base.
	Parse(r io.Reader, base *url.URL) (*goquery.Document, error)
	// GetLinks lists every link occurrence of a parsed document in document order.
	GetLinks(doc *goquery.Document) []Link
}
