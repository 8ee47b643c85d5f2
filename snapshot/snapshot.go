package snapshot

import (
	"encoding/json"
	"os"
	"sort"
	"strings"
	"time"
)

// Placeholder is recorded for a token class that yielded nothing, so
// dates/times are never empty when a record is serialized or compared.
const Placeholder = "n/a"

// SessionRecord is one schedule entry for an offering: the date tokens and
// time tokens extracted from a single row or text block.
type SessionRecord struct {
	Dates []string `json:"dates"`
	Times []string `json:"times"`
}

// NewSessionRecord builds a normalized record, substituting the placeholder
// for a token class that came back empty.
func NewSessionRecord(dates, times []string) SessionRecord {
	rec := SessionRecord{
		Dates: NormalizeTokens(dates),
		Times: NormalizeTokens(times),
	}
	if len(rec.Dates) == 0 {
		rec.Dates = []string{Placeholder}
	}
	if len(rec.Times) == 0 {
		rec.Times = []string{Placeholder}
	}
	return rec
}

// NormalizeTokens deduplicates and sorts tokens lexicographically. The order
// is stable for comparison, not chronological.
func NormalizeTokens(tokens []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// IsPlaceholder reports whether the record carries no real schedule data.
func (r SessionRecord) IsPlaceholder() bool {
	return len(r.Dates) == 1 && r.Dates[0] == Placeholder &&
		len(r.Times) == 1 && r.Times[0] == Placeholder
}

// SortKey joins the token sets so records can be ordered deterministically.
func (r SessionRecord) SortKey() string {
	return strings.Join(r.Dates, ",") + "|" + strings.Join(r.Times, ",")
}

// Equal reports whether two records hold the same normalized token sets.
func (r SessionRecord) Equal(other SessionRecord) bool {
	return tokensEqual(r.Dates, other.Dates) && tokensEqual(r.Times, other.Times)
}

func tokensEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SortRecords orders records by (joined dates, joined times) so that two
// extraction runs over the same page compare equal regardless of the order
// the rows were encountered in.
func SortRecords(records []SessionRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].SortKey() < records[j].SortKey()
	})
}

// RecordsEqual compares two already-sorted session lists element-wise.
func RecordsEqual(a, b []SessionRecord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Offering is one tracked catalog listing at one point in time. Offerings are
// matched across runs by Label; LocatorTag is informational only, because the
// site's detail URL for a listing is unstable or absent for inline-expanding
// rows.
type Offering struct {
	Label      string          `json:"label"`
	LocatorTag string          `json:"locator_tag"`
	Sessions   []SessionRecord `json:"sessions"`
}

// NewOffering builds an offering with its sessions sorted for stable diffs.
func NewOffering(label, locatorTag string, sessions []SessionRecord) Offering {
	SortRecords(sessions)
	return Offering{Label: label, LocatorTag: locatorTag, Sessions: sessions}
}

// Present reports whether the offering has at least one record with real
// schedule data. A listing that exists on the page but yielded nothing
// parsable is treated the same as one that was not found at all, so a
// transient render failure does not show up as an added/removed pair.
func (o Offering) Present() bool {
	for _, rec := range o.Sessions {
		if !rec.IsPlaceholder() {
			return true
		}
	}
	return false
}

// Baseline is the persisted snapshot set from the previous run.
type Baseline struct {
	Items       []Offering `json:"items"`
	LastUpdated *time.Time `json:"last_updated"`
}

// LoadBaseline reads the baseline file. A missing or unparsable file is
// treated as an empty baseline, never as an error.
func LoadBaseline(filename string) Baseline {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Baseline{}
	}
	var base Baseline
	if err := json.Unmarshal(data, &base); err != nil {
		return Baseline{}
	}
	return base
}

// SaveBaseline replaces the baseline file wholesale with the given offerings.
func SaveBaseline(filename string, items []Offering) error {
	now := time.Now().UTC()
	base := Baseline{Items: items, LastUpdated: &now}
	data, err := json.MarshalIndent(base, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
