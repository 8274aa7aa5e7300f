// Package scraper takes a browserless snapshot of the reservation page
// over plain HTTP. It cannot click anything, but it is enough to list
// candidate dates without the cost of a browser launch.
package scraper

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"grands-buffets-watch/internal/models"
)

// Scraper fetches and parses the reservation page.
type Scraper struct {
	client *http.Client
	url    string
}

// New creates a scraper for the given reservation page URL.
func New(url string) *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		url: url,
	}
}

// FetchSnapshot downloads the page and extracts its button controls.
// The snapshots carry no element refs: an HTTP snapshot is read-only.
func (s *Scraper) FetchSnapshot() ([]models.ElementSnapshot, error) {
	resp, err := s.client.Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reservation page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reservation page returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return ParseSnapshot(body)
}

// ParseSnapshot extracts every button element from raw HTML as an
// ElementSnapshot.
func ParseSnapshot(html []byte) ([]models.ElementSnapshot, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var snapshot []models.ElementSnapshot
	doc.Find("button").Each(func(i int, sel *goquery.Selection) {
		el := models.ElementSnapshot{
			Text:      strings.TrimSpace(sel.Text()),
			AriaLabel: strings.TrimSpace(sel.AttrOr("aria-label", "")),
		}
		_, el.Disabled = sel.Attr("disabled")
		el.AriaDisabled = sel.AttrOr("aria-disabled", "")
		el.Classes = strings.Fields(sel.AttrOr("class", ""))
		snapshot = append(snapshot, el)
	})

	return snapshot, nil
}
