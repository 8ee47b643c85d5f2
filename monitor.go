package main

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"civicrec-monitor/calendar"
	"civicrec-monitor/config"
	"civicrec-monitor/report"
	"civicrec-monitor/scraper"
	"civicrec-monitor/snapshot"
	"civicrec-monitor/uploader"
)

// runOnce performs one monitoring pass: open the catalog, extract every
// tracked offering in sequence, diff against the baseline, write the
// artifacts, and replace the baseline. The returned error covers only
// top-level faults; a single offering failing is absorbed as empty results
// for that offering.
func runOnce(cfg *config.Config) (string, int, error) {
	browser, err := scraper.LaunchBrowser(cfg.HeadlessMode())
	if err != nil {
		return "", report.CodeUnchanged, err
	}
	defer browser.Close()

	tuning := tuningFromConfig(cfg)
	if err := scraper.OpenCatalog(browser.Page, cfg.CatalogURL, cfg.CategoryLabels, cfg.SearchKeyword, tuning); err != nil {
		return "", report.CodeUnchanged, err
	}

	extractor := scraper.NewExtractor(browser.Page, tuning)
	var current []snapshot.Offering
	for _, label := range cfg.TrackedOfferings {
		records, tag, err := extractor.Extract(label)
		if err != nil {
			log.WithField("offering", label).Warnf("extraction failed, treating as empty: %v", err)
			records = nil
		}
		if tag == "" {
			tag = scraper.SlugForLabel(label)
		}
		current = append(current, snapshot.NewOffering(label, tag, records))
	}

	previous := snapshot.LoadBaseline(cfg.BaselineFile)
	changes := snapshot.Diff(previous.Items, current, cfg.TrackedOfferings)
	now := time.Now()
	text := report.Render(current, changes, cfg.TrackedOfferings, now)

	if err := snapshot.SaveBaseline(cfg.BaselineFile, current); err != nil {
		log.Warnf("saving baseline: %v", err)
	}
	if err := os.WriteFile(cfg.ReportFile, []byte(text), 0644); err != nil {
		log.Warnf("writing report file: %v", err)
	}
	if err := calendar.WriteFeed(cfg.CalendarFile, current, now); err != nil {
		log.Warnf("writing calendar feed: %v", err)
	}
	uploadArtifacts(cfg)

	return text, report.ExitCode(changes), nil
}

// uploadArtifacts pushes the feed and report to GitHub when upload is
// configured. Failures are logged; the run result stands either way.
func uploadArtifacts(cfg *config.Config) {
	if cfg.GithubToken == "" || cfg.GithubRepo == "" {
		return
	}
	uploads := map[string]string{
		cfg.GithubPath + "sessions.ics": cfg.CalendarFile,
		cfg.GithubPath + "report.txt":   cfg.ReportFile,
	}
	for path, filename := range uploads {
		if err := uploader.UploadToGitHub(cfg.GithubToken, cfg.GithubRepo, path, filename, "Update availability artifacts"); err != nil {
			log.Warnf("uploading %s: %v", filename, err)
		}
	}
}

func tuningFromConfig(cfg *config.Config) scraper.Tuning {
	tuning := scraper.DefaultTuning(cfg.SiteHost())
	tuning.Columns = scraper.ColumnConfig{
		DateKeywords:       cfg.Columns.DateKeywords,
		TimeKeywords:       cfg.Columns.TimeKeywords,
		FallbackDateColumn: *cfg.Columns.FallbackDateColumn,
		FallbackTimeColumn: *cfg.Columns.FallbackTimeColumn,
	}
	tuning.ScrollIncrements = cfg.Scroll.Increments
	tuning.ScrollDelta = cfg.Scroll.Delta
	tuning.SettleMillis = cfg.Scroll.SettleMillis
	return tuning
}
