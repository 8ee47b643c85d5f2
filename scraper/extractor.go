package scraper

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/playwright-community/playwright-go"
	log "github.com/sirupsen/logrus"

	"civicrec-monitor/snapshot"
)

// modalSelector matches the overlay containers the site has been observed to
// render schedules into.
const modalSelector = `[role="dialog"], .modal, [class*="modal"], [class*="popup"], [class*="overlay"]`

// closeSelector matches the explicit dismiss controls tried when Escape does
// not close a modal.
const closeSelector = `[aria-label="Close"], .modal-close, .close`

// Tuning bundles the site-specific knobs of the extractor so tuning does not
// require code changes.
type Tuning struct {
	Columns            ColumnConfig
	ScrollIncrements   int
	ScrollDelta        float64
	SettleMillis       float64
	RevealSettleMillis float64
	ClickTimeoutMillis float64
	SiteHost           string
}

// DefaultTuning returns the knobs matching the target site.
func DefaultTuning(siteHost string) Tuning {
	return Tuning{
		Columns:            DefaultColumnConfig(),
		ScrollIncrements:   15,
		ScrollDelta:        1200,
		SettleMillis:       150,
		RevealSettleMillis: 1500,
		ClickTimeoutMillis: 3000,
		SiteHost:           siteHost,
	}
}

// Extractor pulls normalized session records for named offerings out of an
// already-opened catalog page. Offerings must be extracted one at a time:
// revealing a schedule can navigate or mutate shared page state.
type Extractor struct {
	page   playwright.Page
	tuning Tuning
}

// NewExtractor wraps an opened catalog page.
func NewExtractor(page playwright.Page, tuning Tuning) *Extractor {
	return &Extractor{page: page, tuning: tuning}
}

// Extract locates the offering with the given label and returns its session
// records together with a best-effort locator tag. A label that cannot be
// found or revealed yields an empty result, never an error; an error means
// the browsing runtime itself failed and the caller should treat the
// offering as empty for this run.
func (e *Extractor) Extract(label string) ([]snapshot.SessionRecord, string, error) {
	target := e.locate(label)
	if target == nil {
		e.scrollForLazyLoad()
		target = e.locate(label)
	}
	if target == nil {
		log.WithField("offering", label).Info("offering not found on page")
		return nil, SlugForLabel(label), nil
	}

	tag := e.locatorTag(target, label)
	records, err := e.reveal(target, label)
	if err != nil {
		return nil, tag, err
	}
	snapshot.SortRecords(records)
	return records, tag, nil
}

// locate searches the main document and every same-domain frame, preferring
// an exact accessible link match, then a case-insensitive substring match,
// then a relaxed match on the label's prefix before a colon. The site
// sometimes truncates or reflows the "Category: Variant" suffix.
func (e *Extractor) locate(label string) playwright.Locator {
	for _, scope := range e.scopes() {
		if loc := locateInScope(scope, label); loc != nil {
			return loc
		}
	}
	return nil
}

func locateInScope(scope Scope, label string) playwright.Locator {
	if loc := firstMatch(scope.RoleLink(label, true)); loc != nil {
		return loc
	}
	pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label))
	if loc := firstMatch(scope.TextMatch(pattern)); loc != nil {
		return loc
	}
	if prefix, ok := labelPrefix(label); ok {
		relaxed := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(prefix))
		if loc := firstMatch(scope.TextMatch(relaxed)); loc != nil {
			return loc
		}
	}
	return nil
}

func firstMatch(loc playwright.Locator) playwright.Locator {
	count, err := loc.Count()
	if err != nil || count == 0 {
		return nil
	}
	return loc.First()
}

func labelPrefix(label string) (string, bool) {
	idx := strings.Index(label, ":")
	if idx <= 0 {
		return "", false
	}
	return strings.TrimSpace(label[:idx]), true
}

// scopes lists the browsing contexts to search, main document first, then
// every embedded frame on the target site's domain.
func (e *Extractor) scopes() []Scope {
	scopes := []Scope{pageScope{page: e.page}}
	for _, frame := range e.page.Frames() {
		if frame.URL() == e.page.URL() {
			continue
		}
		if !hostMatches(frame.URL(), e.tuning.SiteHost) {
			continue
		}
		scopes = append(scopes, frameScope{frame: frame})
	}
	return scopes
}

func hostMatches(rawURL, siteHost string) bool {
	if siteHost == "" {
		return true
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.Contains(parsed.Host, siteHost)
}

// scrollForLazyLoad nudges the viewport down a bounded number of increments
// so lazily rendered rows get a chance to appear.
func (e *Extractor) scrollForLazyLoad() {
	for i := 0; i < e.tuning.ScrollIncrements; i++ {
		if err := e.page.Mouse().Wheel(0, e.tuning.ScrollDelta); err != nil {
			log.Warnf("scroll failed: %v", err)
			return
		}
		e.page.WaitForTimeout(e.tuning.SettleMillis)
	}
}

// reveal clicks the located element once and searches an expanding ring of
// candidates for the schedule. If the click navigated, the new document is
// parsed and the page is returned to the catalog so the next offering starts
// from a consistent place.
func (e *Extractor) reveal(target playwright.Locator, label string) ([]snapshot.SessionRecord, error) {
	prevURL := e.page.URL()
	preFrames := e.frameURLs()

	if err := target.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(e.tuning.ClickTimeoutMillis),
	}); err != nil {
		return nil, fmt.Errorf("clicking %q: %w", label, err)
	}
	e.page.WaitForTimeout(e.tuning.RevealSettleMillis)

	if e.page.URL() != prevURL {
		return e.extractFromNavigation(label, prevURL)
	}

	pageHTML, err := e.page.Content()
	if err != nil {
		return nil, fmt.Errorf("reading page content: %w", err)
	}

	// Candidate ring, in strict priority order: real table, ARIA grid,
	// modal overlay, embedded frame, free text.
	if records := StructuredRecords(pageHTML, label, e.tuning.Columns); len(records) > 0 {
		log.WithField("offering", label).Info("schedule parsed from inline structure")
		return records, nil
	}
	if records, found := e.extractFromModal(label); found {
		log.WithField("offering", label).Info("schedule parsed from modal")
		return records, nil
	}
	if records := e.extractFromFrames(label, preFrames); len(records) > 0 {
		log.WithField("offering", label).Info("schedule parsed from embedded frame")
		return records, nil
	}
	if records := FreeTextRecords(pageHTML, label); len(records) > 0 {
		log.WithField("offering", label).Info("schedule parsed from surrounding text")
		return records, nil
	}
	log.WithField("offering", label).Info("click revealed no parsable schedule")
	return nil, nil
}

// extractFromNavigation parses the document the click landed on, then goes
// back. The return step is mandatory: later offerings are searched from the
// catalog page.
func (e *Extractor) extractFromNavigation(label, prevURL string) ([]snapshot.SessionRecord, error) {
	detailHTML, contentErr := e.page.Content()

	var records []snapshot.SessionRecord
	if contentErr == nil {
		records = ExtractFromDocument(detailHTML, label, e.tuning.Columns)
		log.WithFields(log.Fields{"offering": label, "url": e.page.URL()}).
			Info("schedule searched on detail page")
	}

	if _, err := e.page.GoBack(playwright.PageGoBackOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return records, fmt.Errorf("returning to %s: %w", prevURL, err)
	}
	e.page.WaitForTimeout(e.tuning.SettleMillis)

	if contentErr != nil {
		return nil, fmt.Errorf("reading detail page: %w", contentErr)
	}
	return records, nil
}

// extractFromModal looks for a visible overlay whose text mentions the label.
// The boolean reports whether such a modal was found at all, so the caller
// stops the ring even when the modal held nothing parsable.
func (e *Extractor) extractFromModal(label string) ([]snapshot.SessionRecord, bool) {
	modals := e.page.Locator(modalSelector)
	count, err := modals.Count()
	if err != nil {
		return nil, false
	}
	for i := 0; i < count; i++ {
		modal := modalScope{container: modals.Nth(i)}
		visible, err := modal.container.IsVisible()
		if err != nil || !visible {
			continue
		}
		text, err := modal.container.InnerText()
		if err != nil || !containsFold(text, label) {
			continue
		}

		var records []snapshot.SessionRecord
		if modalHTML, err := modal.HTML(); err == nil {
			records = FirstTableRecords(modalHTML, e.tuning.Columns)
		}
		if len(records) == 0 {
			records = RecordsFromText(text)
		}
		e.dismissModal(modal)
		return records, true
	}
	return nil, false
}

// dismissModal tries Escape first, then an explicit close control, so modal
// state does not leak into the next offering. Failure is non-fatal.
func (e *Extractor) dismissModal(modal modalScope) {
	if err := e.page.Keyboard().Press("Escape"); err != nil {
		log.Warnf("escape key failed: %v", err)
	}
	e.page.WaitForTimeout(e.tuning.SettleMillis)

	visible, err := modal.container.IsVisible()
	if err != nil || !visible {
		return
	}
	closeButton := modal.Find(closeSelector)
	if loc := firstMatch(closeButton); loc != nil {
		if err := loc.Click(playwright.LocatorClickOptions{
			Timeout: playwright.Float(e.tuning.ClickTimeoutMillis),
		}); err != nil {
			log.Warnf("modal close button failed: %v", err)
		}
	}
}

// extractFromFrames parses the first table found in a frame the click could
// have produced the schedule in. Frames that appeared with the click are
// probed first; pre-existing same-domain frames are probed after them, since
// a click can repopulate or unhide an iframe without changing its URL and
// frame documents are invisible to the inline probes.
func (e *Extractor) extractFromFrames(label string, preFrames map[string]bool) []snapshot.SessionRecord {
	frames := e.page.Frames()
	urls := make([]string, len(frames))
	for i, frame := range frames {
		urls[i] = frame.URL()
	}
	for _, i := range frameProbeOrder(urls, e.page.URL(), preFrames, e.tuning.SiteHost) {
		frameHTML, err := frames[i].Content()
		if err != nil {
			log.Warnf("reading frame %s: %v", urls[i], err)
			continue
		}
		if records := FirstTableRecords(frameHTML, e.tuning.Columns); len(records) > 0 {
			return records
		}
	}
	return nil
}

// frameProbeOrder ranks candidate frames by index: frames whose URL was not
// present before the click first, then pre-existing frames on the site's
// domain. The main document is excluded, its content was already covered by
// the earlier slots.
func frameProbeOrder(frameURLs []string, pageURL string, preFrames map[string]bool, siteHost string) []int {
	var fresh, existing []int
	for i, frameURL := range frameURLs {
		if frameURL == pageURL {
			continue
		}
		if !preFrames[frameURL] {
			fresh = append(fresh, i)
			continue
		}
		if hostMatches(frameURL, siteHost) {
			existing = append(existing, i)
		}
	}
	return append(fresh, existing...)
}

func (e *Extractor) frameURLs() map[string]bool {
	urls := make(map[string]bool)
	for _, frame := range e.page.Frames() {
		urls[frame.URL()] = true
	}
	return urls
}

// locatorTag resolves a stable-ish reference for the offering: the real
// detail URL when the located element carries one, else a slug derived from
// the label. Informational only, never used for identity.
func (e *Extractor) locatorTag(target playwright.Locator, label string) string {
	href, err := target.GetAttribute("href")
	if err != nil || href == "" {
		return SlugForLabel(label)
	}
	if strings.HasPrefix(href, "/") && e.tuning.SiteHost != "" {
		return "https://" + e.tuning.SiteHost + href
	}
	return href
}

// SlugForLabel synthesizes a locator tag from a label when no real URL can be
// resolved.
func SlugForLabel(label string) string {
	var sb strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		case !lastDash:
			sb.WriteRune('-')
			lastDash = true
		}
	}
	return strings.Trim(sb.String(), "-")
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
