package scraper

import (
	"regexp"

	"github.com/playwright-community/playwright-go"
)

// Scope is one place to search for an offering. The main document, an
// embedded frame and a modal overlay all answer the same two queries, so the
// locate chain can treat them as a prioritized list instead of nested
// branches.
type Scope interface {
	// RoleLink locates elements with the accessible role "link" and the
	// given accessible name.
	RoleLink(name string, exact bool) playwright.Locator
	// TextMatch locates elements whose visible text matches the pattern.
	TextMatch(pattern *regexp.Regexp) playwright.Locator
}

var (
	_ Scope = pageScope{}
	_ Scope = frameScope{}
	_ Scope = modalScope{}
)

type pageScope struct {
	page playwright.Page
}

func (s pageScope) RoleLink(name string, exact bool) playwright.Locator {
	return s.page.GetByRole(*playwright.AriaRoleLink, playwright.PageGetByRoleOptions{
		Name:  name,
		Exact: playwright.Bool(exact),
	})
}

func (s pageScope) TextMatch(pattern *regexp.Regexp) playwright.Locator {
	return s.page.GetByText(pattern)
}

type frameScope struct {
	frame playwright.Frame
}

func (s frameScope) RoleLink(name string, exact bool) playwright.Locator {
	return s.frame.GetByRole(*playwright.AriaRoleLink, playwright.FrameGetByRoleOptions{
		Name:  name,
		Exact: playwright.Bool(exact),
	})
}

func (s frameScope) TextMatch(pattern *regexp.Regexp) playwright.Locator {
	return s.frame.GetByText(pattern)
}

type modalScope struct {
	container playwright.Locator
}

func (s modalScope) RoleLink(name string, exact bool) playwright.Locator {
	return s.container.GetByRole(*playwright.AriaRoleLink, playwright.LocatorGetByRoleOptions{
		Name:  name,
		Exact: playwright.Bool(exact),
	})
}

func (s modalScope) TextMatch(pattern *regexp.Regexp) playwright.Locator {
	return s.container.GetByText(pattern)
}

// Find locates elements inside the overlay by CSS selector. Used to reach the
// dismiss control.
func (s modalScope) Find(selector string) playwright.Locator {
	return s.container.Locator(selector)
}

// HTML returns the overlay's rendered markup for structure parsing.
func (s modalScope) HTML() (string, error) {
	return s.container.InnerHTML()
}
