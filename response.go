package spider

import (
	"bytes"
	"io"
	"mime"
	"net/http"
)

// sniffLen is used for detecting content type. See http.sniffLen.
const sniffLen = 512

var imageMediaTypes = map[string]struct{}{
	"image/gif":  {},
	"image/bmp":  {},
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// Response is a successfully fetched page.
type Response struct {
	// URL is the requested url.
	URL string
	// FinalURL is the url of the last request, after following redirects.
	FinalURL   string
	StatusCode int
	Header     http.Header
	// ContentType is the raw Content-Type header.
	ContentType string
	// ContentEncoding is the raw Content-Encoding header. Body is already decoded.
	ContentEncoding string
	Body            []byte
}

// Redirected tells whether the page was served from another url than the requested one.
func (r *Response) Redirected() bool {
	return r.FinalURL != r.URL
}

// BodyReader returns a new reader of the decoded body.
func (r *Response) BodyReader() io.Reader {
	return bytes.NewReader(r.Body)
}

// MediaType returns the media type (without the parameters) of the response.
//
// If the Content-Type is not set or is set to `application/octet-stream`, the media type is detected from the first
// bytes of the body with http.DetectContentType(). If it cannot determine a more specific one, it returns
// `application/octet-stream`.
//
// See https://pkg.go.dev/net/http#DetectContentType.
func (r *Response) MediaType() string {
	mediaType := parseMediaType(r.ContentType)

	if mediaType != "" && mediaType != "application/octet-stream" {
		return mediaType
	}

	sniff := r.Body
	if len(sniff) > sniffLen {
		sniff = sniff[:sniffLen]
	}

	return parseMediaType(http.DetectContentType(sniff))
}

// IsHTML tells whether the response is an html page.
func (r *Response) IsHTML() bool {
	return r.MediaType() == "text/html"
}

// IsImage tells whether the response is a gif, bmp, jpeg, png or webp image.
func (r *Response) IsImage() bool {
	_, ok := imageMediaTypes[r.MediaType()]

	return ok
}

func parseMediaType(contentType string) string {
	if contentType == "" {
		return ""
	}

	mediaType, _, _ := mime.ParseMediaType(contentType) // nolint: errcheck // We do not care about the error, it is probably an error after the `;`.

	return mediaType
}
