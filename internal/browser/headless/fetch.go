package headless

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/klauspost/compress/gzhttp"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

var (
	ErrNotFound = errors.New("page not found")
	ErrNotHTML  = errors.New("response is not an html document")
)

// Page is a fetched document.
type Page struct {
	URL  string
	HTML string
}

// Fetcher retrieves pages for a Browser.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL, userAgent string) (Page, error)
}

// HTTPFetcher fetches pages over HTTP.
type HTTPFetcher struct {
	client *resty.Client
}

// NewHTTPFetcher builds a fetcher that follows redirects and accepts
// compressed responses.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := resty.New().
		SetTransport(gzhttp.Transport(http.DefaultTransport)).
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10)).
		SetHeader("Accept", "text/html,application/xhtml+xml")
	return &HTTPFetcher{client: c}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL, userAgent string) (Page, error) {
	req := f.client.R().SetContext(ctx)
	if userAgent != "" {
		req.SetHeader("User-Agent", userAgent)
	}
	resp, err := req.Get(rawURL)
	if err != nil {
		return Page{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return Page{}, fmt.Errorf("%w: %s", ErrNotFound, rawURL)
	}
	if resp.IsError() {
		return Page{}, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode())
	}
	if kind := mimetype.Detect(resp.Body()); !kind.Is("text/html") {
		return Page{}, fmt.Errorf("%w: %s is %s", ErrNotHTML, rawURL, kind.String())
	}

	final := rawURL
	if resp.RawResponse != nil && resp.RawResponse.Request != nil {
		final = resp.RawResponse.Request.URL.String()
	}
	return Page{URL: final, HTML: decodeBody(resp.Body(), resp.Header().Get("Content-Type"))}, nil
}

// decodeBody converts a document to UTF-8. A declared charset wins; an
// undeclared non-UTF-8 body falls back to detection.
func decodeBody(body []byte, contentType string) string {
	declared := strings.Contains(strings.ToLower(contentType), "charset=")
	if !declared {
		if utf8.Valid(body) {
			return string(body)
		}
		contentType = "text/html; charset=" + DetectCharset(body)
	}

	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return string(body)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return string(body)
	}
	return string(out)
}

// DetectCharset guesses the encoding of body, defaulting to utf-8.
func DetectCharset(body []byte) string {
	result, err := chardet.NewTextDetector().DetectBest(body)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

// StaticPages serves in-memory documents keyed by URL path. Query strings
// and fragments are ignored for lookup but kept in the page URL.
type StaticPages struct {
	mu    sync.RWMutex
	pages map[string]string
}

func NewStaticPages(pages map[string]string) *StaticPages {
	sp := &StaticPages{pages: make(map[string]string, len(pages))}
	for path, doc := range pages {
		sp.pages[path] = doc
	}
	return sp
}

// Set adds or replaces the document at path.
func (s *StaticPages) Set(path, doc string) {
	s.mu.Lock()
	s.pages[path] = doc
	s.mu.Unlock()
}

func (s *StaticPages) Fetch(_ context.Context, rawURL, _ string) (Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Page{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	path := u.Path
	if path == "" {
		path = "/"
	}

	s.mu.RLock()
	doc, ok := s.pages[path]
	s.mu.RUnlock()
	if !ok {
		return Page{}, fmt.Errorf("%w: %s", ErrNotFound, rawURL)
	}
	return Page{URL: rawURL, HTML: doc}, nil
}
