package scraper

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
	log "github.com/sirupsen/logrus"
)

// Browser bundles the Playwright runtime, the launched browser and the single
// page every offering is processed on.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	Page    playwright.Page
}

// LaunchBrowser starts Playwright and opens one Chromium page.
func LaunchBrowser(headless bool) (*Browser, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launching chromium: %w", err)
	}
	page, err := browser.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("opening page: %w", err)
	}
	return &Browser{pw: pw, browser: browser, Page: page}, nil
}

// Close shuts the browser and the Playwright runtime down.
func (b *Browser) Close() {
	if err := b.browser.Close(); err != nil {
		log.Warnf("closing browser: %v", err)
	}
	if err := b.pw.Stop(); err != nil {
		log.Warnf("stopping playwright: %v", err)
	}
}
