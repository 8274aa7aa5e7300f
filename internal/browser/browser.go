// Package browser implements the probe engine's Driver surface on top
// of Playwright. One client owns one Chromium page; the probe engine
// never touches Playwright types directly.
package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"grands-buffets-watch/internal/models"
)

// Client drives a single browser page.
type Client struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	log     *zap.SugaredLogger
}

// NewClient starts the Playwright driver. Browsers are not installed
// automatically; install once with:
//
//	go run github.com/playwright-community/playwright-go/cmd/playwright@latest install chromium
func NewClient(log *zap.SugaredLogger) (*Client, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start Playwright: %w", err)
	}
	return &Client{pw: pw, log: log}, nil
}

// Start launches Chromium and opens the page all probes share.
func (c *Client) Start(headless bool) error {
	browser, err := c.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
			"--disable-setuid-sandbox",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	c.browser = browser

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		Viewport: &playwright.Size{
			Width:  1280,
			Height: 720,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create browser context: %w", err)
	}
	c.context = context

	page, err := context.NewPage()
	if err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(15000)
	page.SetDefaultNavigationTimeout(30000)
	c.page = page

	return nil
}

// Navigate loads url and waits for the network to settle.
func (c *Client) Navigate(url string) error {
	_, err := c.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(30000),
	})
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// Snapshot captures every button on the page as an ElementSnapshot.
// The returned refs are element handles valid until the next navigation.
func (c *Client) Snapshot() ([]models.ElementSnapshot, error) {
	handles, err := c.page.QuerySelectorAll("button")
	if err != nil {
		return nil, fmt.Errorf("failed to query page elements: %w", err)
	}

	snapshot := make([]models.ElementSnapshot, 0, len(handles))
	for _, h := range handles {
		el := models.ElementSnapshot{Ref: h}

		if text, err := h.InnerText(); err == nil {
			el.Text = strings.TrimSpace(text)
		}
		if aria, err := h.GetAttribute("aria-label"); err == nil {
			el.AriaLabel = strings.TrimSpace(aria)
		}
		if disabled, err := h.IsDisabled(); err == nil {
			el.Disabled = disabled
		}
		if ariaDisabled, err := h.GetAttribute("aria-disabled"); err == nil {
			el.AriaDisabled = ariaDisabled
		}
		if class, err := h.GetAttribute("class"); err == nil {
			el.Classes = strings.Fields(class)
		}

		snapshot = append(snapshot, el)
	}
	return snapshot, nil
}

// Click clicks a previously snapshotted element.
func (c *Client) Click(ref models.ElementRef, timeout time.Duration) error {
	handle, ok := ref.(playwright.ElementHandle)
	if !ok {
		return fmt.Errorf("stale or foreign element reference")
	}
	if err := handle.ScrollIntoViewIfNeeded(); err != nil {
		c.log.Debugf("scroll into view failed: %v", err)
	}
	return handle.Click(playwright.ElementHandleClickOptions{
		Timeout: playwright.Float(ms(timeout)),
	})
}

// ClickByText clicks the first element containing the given text.
func (c *Client) ClickByText(label string, timeout time.Duration) error {
	return c.page.Locator("text=" + label).First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(ms(timeout)),
	})
}

// SelectOption selects a value in the first element matching selector.
func (c *Client) SelectOption(selector, value string, timeout time.Duration) error {
	_, err := c.page.SelectOption(selector,
		playwright.SelectOptionValues{Values: &[]string{value}},
		playwright.PageSelectOptionOptions{Timeout: playwright.Float(ms(timeout))},
	)
	return err
}

// WaitForIdle waits for outstanding network activity to stop.
func (c *Client) WaitForIdle(timeout time.Duration) error {
	return c.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(ms(timeout)),
	})
}

// VisibleText returns the visible text of the page body.
func (c *Client) VisibleText() (string, error) {
	return c.page.InnerText("body", playwright.PageInnerTextOptions{
		Timeout: playwright.Float(5000),
	})
}

// HasAnyElement reports whether any of the selectors matches at least
// one element on the current page.
func (c *Client) HasAnyElement(selectors ...string) (bool, error) {
	for _, sel := range selectors {
		count, err := c.page.Locator(sel).Count()
		if err != nil {
			continue
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

// Screenshot writes a full-page PNG to path.
func (c *Client) Screenshot(path string) error {
	_, err := c.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

// Close tears the whole browser stack down.
func (c *Client) Close() error {
	if c.page != nil {
		c.page.Close()
	}
	if c.context != nil {
		c.context.Close()
	}
	if c.browser != nil {
		c.browser.Close()
	}
	if c.pw != nil {
		return c.pw.Stop()
	}
	return nil
}

func ms(d time.Duration) float64 {
	return float64(d.Milliseconds())
}
