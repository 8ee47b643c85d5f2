// Package calendar publishes the current snapshot as an ICS feed, so the
// tracked session schedule can be subscribed to from a calendar client.
package calendar

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"civicrec-monitor/snapshot"
)

var rangeSeparator = regexp.MustCompile(`\s*[-–]\s*`)

// BuildFeed converts the offerings into an ICS calendar. One event is emitted
// per (date token, time token) pair that parses into a concrete datetime;
// placeholder and unparsable tokens are skipped.
func BuildFeed(offerings []snapshot.Offering, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//civicrec-monitor//session feed//EN")

	for _, off := range offerings {
		if !off.Present() {
			continue
		}
		for _, rec := range off.Sessions {
			addRecordEvents(cal, off.Label, rec, now)
		}
	}
	return cal.Serialize()
}

// WriteFeed replaces the feed file with the serialized calendar.
func WriteFeed(filename string, offerings []snapshot.Offering, now time.Time) error {
	return os.WriteFile(filename, []byte(BuildFeed(offerings, now)), 0644)
}

func addRecordEvents(cal *ics.Calendar, label string, rec snapshot.SessionRecord, now time.Time) {
	for _, dateTok := range rec.Dates {
		day, lastDay, ok := parseDateToken(dateTok, now.Year())
		if !ok {
			continue
		}
		for _, timeTok := range rec.Times {
			start, end, ok := parseTimeToken(timeTok)
			if !ok {
				continue
			}
			uid := eventUID(label, dateTok, timeTok)
			event := cal.AddEvent(uid)
			event.SetCreatedTime(now)
			event.SetDtStampTime(now)
			event.SetSummary(label)
			event.SetStartAt(at(day, start))
			event.SetEndAt(at(day, end))
			if !lastDay.Equal(day) {
				event.SetDescription(fmt.Sprintf("Repeats %s, %s", dateTok, timeTok))
			}
		}
	}
}

func at(day time.Time, clock time.Duration) time.Time {
	return day.Add(clock)
}

// parseDateToken parses "M/D" or "M/D - M/D" into the first and last day of
// the token, in the local timezone.
func parseDateToken(token string, year int) (first, last time.Time, ok bool) {
	parts := rangeSeparator.Split(token, -1)
	first, ok = parseMonthDay(parts[0], year)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	last = first
	if len(parts) > 1 {
		if end, endOK := parseMonthDay(parts[len(parts)-1], year); endOK {
			last = end
		}
	}
	return first, last, true
}

func parseMonthDay(s string, year int) (time.Time, bool) {
	fields := strings.Split(strings.TrimSpace(s), "/")
	if len(fields) != 2 {
		return time.Time{}, false
	}
	month, err1 := strconv.Atoi(fields[0])
	day, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), true
}

// parseTimeToken parses "H:MM AM" or "H:MM AM - H:MM PM" into clock offsets
// from midnight. A single time gets a half-hour slot.
func parseTimeToken(token string) (start, end time.Duration, ok bool) {
	parts := rangeSeparator.Split(token, -1)
	start, ok = parseClock(parts[0])
	if !ok {
		return 0, 0, false
	}
	end = start + 30*time.Minute
	if len(parts) > 1 {
		if parsed, endOK := parseClock(parts[len(parts)-1]); endOK {
			end = parsed
		}
	}
	return start, end, true
}

func parseClock(s string) (time.Duration, bool) {
	t, err := time.Parse("3:04 PM", strings.ToUpper(strings.TrimSpace(s)))
	if err != nil {
		return 0, false
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
}

func eventUID(label, dateTok, timeTok string) string {
	sum := md5.Sum([]byte(label + "|" + dateTok + "|" + timeTok))
	return hex.EncodeToString(sum[:]) + "@civicrec-monitor"
}
