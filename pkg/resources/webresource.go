package resources

import (
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/andybalholm/brotli"
	"github.com/richard-senior/mcp-runtime/internal/logger"
	"github.com/richard-senior/mcp-runtime/pkg/protocol"
)

// webURIPrefix marks a resource URI as one this provider serves: anything
// of the form "web://<url>" is fetched live rather than looked up in a
// static table.
const webURIPrefix = "web://"

// WebResourceURI builds the resource URI this provider recognizes for a
// given page URL.
func WebResourceURI(pageURL string) string {
	return webURIPrefix + pageURL
}

// WebResourceDescriptor returns the catalog entry advertising that this
// server can fetch one concrete web page as markdown, for registration
// against that page's URI via Registry.Register. The generic "any URL"
// entry is WebResourceProvider.
func WebResourceDescriptor(pageURL string) protocol.Resource {
	return protocol.Resource{
		URI:         WebResourceURI(pageURL),
		Name:        "web page: " + pageURL,
		Description: "Fetches " + pageURL + " and converts it to markdown",
		MimeType:    "text/markdown",
	}
}

// WebResourceProvider returns the catalog entry advertising the web://
// prefix provider itself, for registration via Registry.RegisterPrefix:
// resources/read accepts any "web://<url>" URI, not just one pre-listed
// page.
func WebResourceProvider() protocol.Resource {
	return protocol.Resource{
		URI:         webURIPrefix,
		Name:        "web page fetcher",
		Description: "Fetches any web://<url> page and converts it to markdown",
		MimeType:    "text/markdown",
	}
}

var webHTTPClient = &http.Client{Timeout: 30 * time.Second}

// ReadWebResource is the Reader for web:// URIs: it fetches the
// underlying page, decompresses it per Content-Encoding, and converts the
// HTML body to markdown.
func ReadWebResource(uri string) (protocol.ResourceContents, error) {
	pageURL := strings.TrimPrefix(uri, webURIPrefix)

	html, err := fetchHTML(pageURL)
	if err != nil {
		return protocol.ResourceContents{}, fmt.Errorf("resources: fetch %s: %w", pageURL, err)
	}

	body, err := extractBody(html)
	if err != nil {
		return protocol.ResourceContents{}, fmt.Errorf("resources: parse %s: %w", pageURL, err)
	}

	markdown, err := htmltomarkdown.ConvertString(body)
	if err != nil {
		return protocol.ResourceContents{}, fmt.Errorf("resources: convert %s to markdown: %w", pageURL, err)
	}

	return protocol.ResourceContents{
		URI:      uri,
		MimeType: "text/markdown",
		Text:     markdown,
	}, nil
}

// extractBody strips script/style/nav noise from raw html before handing
// it to the markdown converter, and returns just the document body so a
// page's boilerplate chrome doesn't dominate the converted text.
func extractBody(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	doc.Find("script, style, nav, footer").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		return doc.Text(), nil
	}

	out, err := body.Html()
	if err != nil {
		return "", fmt.Errorf("failed to render body: %w", err)
	}
	return out, nil
}

// fetchHTML retrieves htmlURL with browser-like headers and decompresses
// the body according to whatever Content-Encoding the server used.
func fetchHTML(htmlURL string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, htmlURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := webHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch html: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request returned error status %d", resp.StatusCode)
	}

	var reader io.ReadCloser = resp.Body
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		logger.Debug("handling gzip compressed content")
		reader, err = gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer reader.Close()
	case "deflate":
		logger.Debug("handling deflate compressed content")
		reader = flate.NewReader(resp.Body)
		defer reader.Close()
	case "br":
		logger.Debug("handling brotli compressed content")
		reader = io.NopCloser(brotli.NewReader(resp.Body))
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return data, nil
}
