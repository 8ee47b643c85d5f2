package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"civicrec-monitor/snapshot"
)

var reportTime = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func TestRenderFullReport(t *testing.T) {
	current := []snapshot.Offering{
		snapshot.NewOffering("Swim Lesson Level 1", "https://example.com/catalog/1001", []snapshot.SessionRecord{
			snapshot.NewSessionRecord([]string{"6/1 - 6/30"}, []string{"9:00 AM - 9:30 AM"}),
		}),
		snapshot.NewOffering("Water Aerobics", "water-aerobics", nil),
	}
	changes := snapshot.Changes{
		Added: []snapshot.Offering{current[0]},
		Removed: []snapshot.Offering{
			snapshot.NewOffering("Junior Lifeguards", "junior-lifeguards", []snapshot.SessionRecord{
				snapshot.NewSessionRecord([]string{"5/1"}, []string{"4:00 PM"}),
			}),
		},
		Changed: []snapshot.ChangedOffering{
			{
				Label:  "Lap Swim",
				Before: []snapshot.SessionRecord{snapshot.NewSessionRecord([]string{"6/1"}, []string{"6:00 AM"})},
				After:  []snapshot.SessionRecord{snapshot.NewSessionRecord([]string{"6/1"}, []string{"7:00 AM"})},
			},
		},
	}
	tracked := []string{"Swim Lesson Level 1", "Water Aerobics", "Junior Lifeguards", "Lap Swim"}

	text := Render(current, changes, tracked, reportTime)

	require.Contains(t, text, "2026-06-01T08:00:00Z")
	require.Contains(t, text, "Tracked offerings: Swim Lesson Level 1, Water Aerobics, Junior Lifeguards, Lap Swim")
	require.Contains(t, text, "Swim Lesson Level 1 [https://example.com/catalog/1001]")
	require.Contains(t, text, "6/1 - 6/30 @ 9:00 AM - 9:30 AM")
	require.Contains(t, text, "Water Aerobics\n    no sessions found")
	require.Contains(t, text, "Added:\n  Swim Lesson Level 1")
	require.Contains(t, text, "Removed:\n  Junior Lifeguards")
	require.Contains(t, text, "Changed:\n  Lap Swim")
	require.Contains(t, text, "before:\n      6/1 @ 6:00 AM")
	require.Contains(t, text, "after:\n      6/1 @ 7:00 AM")
}

func TestRenderOmitsEmptyBlocks(t *testing.T) {
	text := Render(nil, snapshot.Changes{}, []string{"A"}, reportTime)
	require.NotContains(t, text, "Added:")
	require.NotContains(t, text, "Removed:")
	require.NotContains(t, text, "Changed:")
	require.Contains(t, text, "no sessions found")
}

func TestRenderTreatsPlaceholderAsNoSessions(t *testing.T) {
	current := []snapshot.Offering{
		snapshot.NewOffering("A", "a", []snapshot.SessionRecord{snapshot.NewSessionRecord(nil, nil)}),
	}
	text := Render(current, snapshot.Changes{}, []string{"A"}, reportTime)
	require.Contains(t, text, "no sessions found")
}

func TestRenderError(t *testing.T) {
	text := RenderError(errors.New("navigation timeout"), reportTime)
	require.True(t, strings.HasPrefix(text, "Availability report - 2026-06-01T08:00:00Z"))
	require.Contains(t, text, "Run failed: navigation timeout")
}

func TestExitCode(t *testing.T) {
	require.Equal(t, CodeUnchanged, ExitCode(snapshot.Changes{}))
	require.Equal(t, CodeChanged, ExitCode(snapshot.Changes{
		Removed: []snapshot.Offering{snapshot.NewOffering("A", "a", nil)},
	}))
}
