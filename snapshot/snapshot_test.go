package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSessionRecordNormalizes(t *testing.T) {
	rec := NewSessionRecord(
		[]string{"6/8", "6/1", "6/8", " 6/1 "},
		[]string{"9:00 AM"},
	)
	require.Equal(t, []string{"6/1", "6/8"}, rec.Dates)
	require.Equal(t, []string{"9:00 AM"}, rec.Times)
}

func TestNewSessionRecordSubstitutesPlaceholder(t *testing.T) {
	rec := NewSessionRecord(nil, []string{"9:00 AM"})
	require.Equal(t, []string{Placeholder}, rec.Dates)
	require.False(t, rec.IsPlaceholder())

	empty := NewSessionRecord(nil, nil)
	require.True(t, empty.IsPlaceholder())
}

func TestRecordListOrderIndependence(t *testing.T) {
	a := []SessionRecord{
		NewSessionRecord([]string{"6/1"}, []string{"9:00 AM"}),
		NewSessionRecord([]string{"6/2"}, []string{"10:00 AM"}),
	}
	b := []SessionRecord{
		NewSessionRecord([]string{"6/2"}, []string{"10:00 AM"}),
		NewSessionRecord([]string{"6/1"}, []string{"9:00 AM"}),
	}
	SortRecords(a)
	SortRecords(b)
	require.True(t, RecordsEqual(a, b))
}

func TestPresenceRule(t *testing.T) {
	testCases := []struct {
		name     string
		sessions []SessionRecord
		present  bool
	}{
		{"no sessions", nil, false},
		{"only placeholder", []SessionRecord{NewSessionRecord(nil, nil)}, false},
		{"real dates", []SessionRecord{NewSessionRecord([]string{"6/1"}, nil)}, true},
		{"real times only", []SessionRecord{NewSessionRecord(nil, []string{"9:00 AM"})}, true},
		{
			"placeholder next to real record",
			[]SessionRecord{NewSessionRecord(nil, nil), NewSessionRecord([]string{"6/1"}, []string{"9:00 AM"})},
			true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			off := NewOffering("Swim Lesson Level 1", "swim-lesson-level-1", tc.sessions)
			require.Equal(t, tc.present, off.Present())
		})
	}
}

func TestBaselineRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "baseline.json")
	items := []Offering{
		NewOffering("Swim Lesson Level 1: Baby Pups & Parent Seals", "swim-lesson-level-1", []SessionRecord{
			NewSessionRecord([]string{"6/1 - 6/30"}, []string{"9:00 AM - 9:30 AM"}),
			NewSessionRecord([]string{"7/1 - 7/31"}, []string{"10:00 AM"}),
		}),
		NewOffering("Water Aerobics", "water-aerobics", nil),
	}

	require.NoError(t, SaveBaseline(filename, items))

	loaded := LoadBaseline(filename)
	require.NotNil(t, loaded.LastUpdated)
	require.Len(t, loaded.Items, len(items))
	for i := range items {
		require.Equal(t, items[i].Label, loaded.Items[i].Label)
		require.Equal(t, items[i].LocatorTag, loaded.Items[i].LocatorTag)
		require.True(t, RecordsEqual(items[i].Sessions, loaded.Items[i].Sessions))
	}
}

func TestLoadBaselinePermissive(t *testing.T) {
	require.Empty(t, LoadBaseline(filepath.Join(t.TempDir(), "missing.json")).Items)

	corrupt := filepath.Join(t.TempDir(), "baseline.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0644))
	base := LoadBaseline(corrupt)
	require.Empty(t, base.Items)
	require.Nil(t, base.LastUpdated)
}
