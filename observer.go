package spider

import "github.com/PuerkitoBio/goquery"

// LevelCallback is called on the crawling goroutine when a level starts. Levels are 1-based, the seed is level 1.
type LevelCallback func(level int)

// LinkCallback is called when a new link from parentURL to url is found. The element is the anchor that holds the link.
type LinkCallback func(parentURL, url string, element *goquery.Selection)

// ResponseCallback is called for every page that was fetched successfully, before its content is inspected.
type ResponseCallback func(url string, resp *Response)

// HTMLCallback is called with the parsed document of every html page, after its links were made absolute.
type HTMLCallback func(url string, doc *goquery.Document)

// Observer groups the optional hooks of a crawl. Any of them may be nil.
//
// Except OnLevelStart, the hooks are called from the workers, concurrently. The spider does not serialize them, hooks that
// share state must synchronize it themselves. OnLinkFound runs while the spider holds the lock of the result, so it must
// not block for long.
type Observer struct {
	OnLevelStart LevelCallback
	OnLinkFound  LinkCallback
	OnResponse   ResponseCallback
	OnHTML       HTMLCallback
}

func (o Observer) levelStarted(level int) {
	if o.OnLevelStart != nil {
		o.OnLevelStart(level)
	}
}

func (o Observer) linkFound(parentURL, url string, element *goquery.Selection) {
	if o.OnLinkFound != nil {
		o.OnLinkFound(parentURL, url, element)
	}
}

func (o Observer) responseReceived(url string, resp *Response) {
	if o.OnResponse != nil {
		o.OnResponse(url, resp)
	}
}

func (o Observer) htmlParsed(url string, doc *goquery.Document) {
	if o.OnHTML != nil {
		o.OnHTML(url, doc)
	}
}
