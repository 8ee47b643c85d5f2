package snapshot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func offering(label string, records ...SessionRecord) Offering {
	return NewOffering(label, "tag-"+label, records)
}

func TestDiffAddedAndRemoved(t *testing.T) {
	previous := []Offering{
		offering("B", NewSessionRecord([]string{"6/1-6/30"}, []string{"9:00 AM-9:30 AM"})),
	}
	current := []Offering{
		offering("A", NewSessionRecord([]string{"7/1-7/31"}, []string{"10:00 AM-10:30 AM"})),
	}

	changes := Diff(previous, current, []string{"A", "B"})

	require.Len(t, changes.Added, 1)
	require.Equal(t, "A", changes.Added[0].Label)
	require.Len(t, changes.Removed, 1)
	require.Equal(t, "B", changes.Removed[0].Label)
	require.Empty(t, changes.Changed)
}

func TestDiffChangedCarriesBothLists(t *testing.T) {
	before := []SessionRecord{
		NewSessionRecord([]string{"6/1-6/30"}, []string{"9:00 AM-9:30 AM"}),
	}
	after := []SessionRecord{
		NewSessionRecord([]string{"6/1-6/30"}, []string{"9:00 AM-9:30 AM", "10:00 AM-10:30 AM"}),
	}

	changes := Diff(
		[]Offering{offering("B", before...)},
		[]Offering{offering("B", after...)},
		[]string{"B"},
	)

	require.Empty(t, changes.Added)
	require.Empty(t, changes.Removed)
	require.Len(t, changes.Changed, 1)
	require.Equal(t, "B", changes.Changed[0].Label)
	require.True(t, RecordsEqual(before, changes.Changed[0].Before))
	require.True(t, RecordsEqual(after, changes.Changed[0].After))
}

func TestDiffUnchangedOmitted(t *testing.T) {
	records := []SessionRecord{NewSessionRecord([]string{"6/1"}, []string{"9:00 AM"})}
	changes := Diff(
		[]Offering{offering("A", records...)},
		[]Offering{offering("A", records...)},
		[]string{"A"},
	)
	require.False(t, changes.Any())
}

func TestDiffPlaceholderCountsAsAbsent(t *testing.T) {
	// "Found but unparsable" behaves exactly like "not found": no added or
	// removed classification in either direction.
	placeholder := offering("A", NewSessionRecord(nil, nil))
	real := offering("A", NewSessionRecord([]string{"6/1"}, []string{"9:00 AM"}))

	changes := Diff([]Offering{placeholder}, nil, []string{"A"})
	require.False(t, changes.Any())

	changes = Diff([]Offering{placeholder}, []Offering{real}, []string{"A"})
	require.Len(t, changes.Added, 1)

	changes = Diff([]Offering{real}, []Offering{placeholder}, []string{"A"})
	require.Len(t, changes.Removed, 1)
}

func TestDiffDomainIsTrackedLabels(t *testing.T) {
	stray := offering("Untracked", NewSessionRecord([]string{"6/1"}, []string{"9:00 AM"}))

	// A label present in the inputs but not tracked is ignored; a tracked
	// label absent from both inputs produces nothing.
	changes := Diff([]Offering{stray}, []Offering{stray}, []string{"A"})
	require.False(t, changes.Any())

	changes = Diff(nil, []Offering{stray}, []string{"A", "Untracked"})
	require.Len(t, changes.Added, 1)
	require.Equal(t, "Untracked", changes.Added[0].Label)
}

func TestDiffAbsentToAbsentEmptyBaseline(t *testing.T) {
	changes := Diff(nil, nil, []string{"A", "B"})
	require.False(t, changes.Any())
}
