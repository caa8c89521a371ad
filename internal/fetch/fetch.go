package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/sis-sections/internal/section"
)

const (
	// DefaultBaseURL is the public catalog root.
	DefaultBaseURL = "https://doc.sis.columbia.edu"
	UserAgent      = "sis-sections-cli/1.0 (github.com/pfrederiksen/sis-sections)"
	Timeout        = 30 * time.Second
)

// Client fetches catalog pages as plain text
type Client struct {
	client  *http.Client
	baseURL string
}

// New creates a new Client rooted at baseURL (DefaultBaseURL when empty).
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		client: &http.Client{
			Timeout: Timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the catalog root this client is bound to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchText GETs a URL and returns the page content as plain text with any
// markup stripped. Pages that wrap the listing in a <pre> block yield the
// block's text; anything else yields the whole document's text.
func (c *Client) FetchText(ctx context.Context, pageURL string) (string, error) {
	doc, err := c.fetchDocument(ctx, pageURL)
	if err != nil {
		return "", err
	}

	if pre := doc.Find("pre"); pre.Length() > 0 {
		return pre.Text(), nil
	}
	return doc.Text(), nil
}

// FetchListing returns the plain-text listing for one subject and term.
// It loads the subject page, follows its "plain text version" link, and
// falls back to the conventional _{Term}_text.html URL when the link is
// missing or the subject page itself cannot be loaded.
func (c *Client) FetchListing(ctx context.Context, subject, term string) (string, error) {
	normalized := section.NormalizeTerm(term)
	subjectURL := fmt.Sprintf("%s/subj/%s/_%s.html", c.baseURL, subject, normalized)
	textURL := fmt.Sprintf("%s/subj/%s/_%s_text.html", c.baseURL, subject, normalized)

	if doc, err := c.fetchDocument(ctx, subjectURL); err == nil {
		if href, ok := plainTextLink(doc); ok {
			if resolved, err := resolveRef(subjectURL, href); err == nil {
				textURL = resolved
			}
		}
	}

	return c.FetchText(ctx, textURL)
}

func (c *Client) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// plainTextLink finds the subject page's link to the listing's plain text
// rendering.
func plainTextLink(doc *goquery.Document) (string, bool) {
	var href string
	doc.Find("a").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(sel.Text()), "plain text") {
			href, _ = sel.Attr("href")
			return false
		}
		return true
	})
	return href, href != ""
}

func resolveRef(base, href string) (string, error) {
	baseU, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	refU, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return baseU.ResolveReference(refU).String(), nil
}
