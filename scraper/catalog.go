package scraper

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
	log "github.com/sirupsen/logrus"
)

const searchInputSelector = `input[type="search"], input[name*="search"], #search`

// OpenCatalog navigates to the catalog page and gets it into a searchable
// state: clicking the first matching category label, running the optional
// keyword search, and scrolling so lazily rendered listings appear.
func OpenCatalog(page playwright.Page, catalogURL string, categoryLabels []string, searchKeyword string, tuning Tuning) error {
	log.WithField("url", catalogURL).Info("opening catalog")
	if _, err := page.Goto(catalogURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return fmt.Errorf("navigating to catalog: %w", err)
	}
	page.WaitForTimeout(2000)

	for _, label := range categoryLabels {
		loc := page.Locator("text=" + label)
		count, err := loc.Count()
		if err != nil || count == 0 {
			continue
		}
		log.WithField("category", label).Info("clicking category")
		if err := loc.First().Click(playwright.LocatorClickOptions{
			Timeout: playwright.Float(tuning.ClickTimeoutMillis),
		}); err != nil {
			log.Warnf("category click failed: %v", err)
			continue
		}
		page.WaitForTimeout(tuning.RevealSettleMillis)
		break
	}

	if searchKeyword != "" {
		if err := searchCatalog(page, searchKeyword, tuning); err != nil {
			log.Warnf("keyword search failed: %v", err)
		}
	}

	for i := 0; i < tuning.ScrollIncrements; i++ {
		if err := page.Mouse().Wheel(0, tuning.ScrollDelta); err != nil {
			log.Warnf("initial scroll failed: %v", err)
			break
		}
		page.WaitForTimeout(tuning.SettleMillis)
	}
	log.Info("finished initial scroll")
	return nil
}

func searchCatalog(page playwright.Page, keyword string, tuning Tuning) error {
	input := page.Locator(searchInputSelector)
	count, err := input.Count()
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("no search input found")
	}
	if err := input.First().Fill(keyword); err != nil {
		return err
	}
	if err := input.First().Press("Enter"); err != nil {
		return err
	}
	page.WaitForTimeout(tuning.RevealSettleMillis)
	return nil
}
