package config

import (
	"encoding/json"
	"net/url"
	"os"
)

// ScrollConfig bounds the lazy-load scrolling done while searching for an
// offering.
type ScrollConfig struct {
	Increments   int     `json:"increments"`
	Delta        float64 `json:"delta"`
	SettleMillis float64 `json:"settle_ms"`
}

// ColumnsConfig tunes how the date and time columns of a schedule table are
// identified. The fallback columns are pointers so an explicit 0 is
// distinguishable from an absent key.
type ColumnsConfig struct {
	DateKeywords       []string `json:"date_keywords"`
	TimeKeywords       []string `json:"time_keywords"`
	FallbackDateColumn *int     `json:"fallback_date_column"`
	FallbackTimeColumn *int     `json:"fallback_time_column"`
}

// Config is the operator-supplied configuration for one monitored catalog.
type Config struct {
	CatalogURL       string        `json:"catalog_url"`
	CategoryLabels   []string      `json:"category_labels"`
	SearchKeyword    string        `json:"search_keyword"`
	TrackedOfferings []string      `json:"tracked_offerings"`
	BaselineFile     string        `json:"baseline_file"`
	ReportFile       string        `json:"report_file"`
	CalendarFile     string        `json:"calendar_file"`
	Headless         *bool         `json:"headless"`
	Scroll           ScrollConfig  `json:"scroll"`
	Columns          ColumnsConfig `json:"columns"`
	GithubToken      string        `json:"github_token"`
	GithubRepo       string        `json:"github_repo"`
	GithubPath       string        `json:"github_path"`
	ServePort        string        `json:"serve_port"`
	IntervalMinutes  int           `json:"interval_minutes"`
}

// LoadConfig reads the JSON config file and fills in defaults for anything
// left unset.
func LoadConfig(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var cfg Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.CatalogURL == "" {
		c.CatalogURL = "https://secure.rec1.com/CA/calabasas-ca/catalog/index"
	}
	if len(c.CategoryLabels) == 0 {
		c.CategoryLabels = []string{"Aquatics Programs", "Aquatics"}
	}
	if c.BaselineFile == "" {
		c.BaselineFile = "baseline.json"
	}
	if c.ReportFile == "" {
		c.ReportFile = "report.txt"
	}
	if c.CalendarFile == "" {
		c.CalendarFile = "sessions.ics"
	}
	if c.ServePort == "" {
		c.ServePort = "8100"
	}
	if c.IntervalMinutes <= 0 {
		c.IntervalMinutes = 30
	}
	if c.Scroll.Increments <= 0 {
		c.Scroll.Increments = 15
	}
	if c.Scroll.Delta <= 0 {
		c.Scroll.Delta = 1200
	}
	if c.Scroll.SettleMillis <= 0 {
		c.Scroll.SettleMillis = 150
	}
	if len(c.Columns.DateKeywords) == 0 {
		c.Columns.DateKeywords = []string{"date"}
	}
	if len(c.Columns.TimeKeywords) == 0 {
		c.Columns.TimeKeywords = []string{"time"}
	}
	if c.Columns.FallbackDateColumn == nil {
		c.Columns.FallbackDateColumn = intp(4)
	}
	if c.Columns.FallbackTimeColumn == nil {
		c.Columns.FallbackTimeColumn = intp(5)
	}
}

func intp(v int) *int {
	return &v
}

// HeadlessMode reports whether the browser should run headless. Defaults to
// true when the field is absent from the file.
func (c *Config) HeadlessMode() bool {
	if c.Headless == nil {
		return true
	}
	return *c.Headless
}

// SiteHost is the catalog URL's host, used to restrict which embedded frames
// are searched.
func (c *Config) SiteHost() string {
	parsed, err := url.Parse(c.CatalogURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}
