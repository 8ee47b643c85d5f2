package snapshot

import "sort"

// ChangedOffering carries the old and new session lists verbatim for the
// report.
type ChangedOffering struct {
	Label  string
	Before []SessionRecord
	After  []SessionRecord
}

// Changes is the classified result of comparing two snapshot sets.
type Changes struct {
	Added   []Offering
	Removed []Offering
	Changed []ChangedOffering
}

// Any reports whether at least one offering was classified.
func (c Changes) Any() bool {
	return len(c.Added) > 0 || len(c.Removed) > 0 || len(c.Changed) > 0
}

// Diff classifies every tracked label as added, removed, changed or unchanged
// between two snapshot sets. The comparison domain is exactly trackedLabels,
// not the union of whatever happened to appear in either input. Unchanged
// offerings are omitted from the result.
func Diff(previous, current []Offering, trackedLabels []string) Changes {
	prevByLabel := make(map[string]Offering)
	for _, off := range previous {
		prevByLabel[off.Label] = off
	}
	currByLabel := make(map[string]Offering)
	for _, off := range current {
		currByLabel[off.Label] = off
	}

	labels := append([]string(nil), trackedLabels...)
	sort.Strings(labels)

	var changes Changes
	for _, label := range labels {
		prev, hadPrev := prevByLabel[label]
		curr, hasCurr := currByLabel[label]

		presentBefore := hadPrev && prev.Present()
		presentNow := hasCurr && curr.Present()

		switch {
		case !presentBefore && presentNow:
			changes.Added = append(changes.Added, curr)
		case presentBefore && !presentNow:
			changes.Removed = append(changes.Removed, prev)
		case presentBefore && presentNow && !RecordsEqual(prev.Sessions, curr.Sessions):
			changes.Changed = append(changes.Changed, ChangedOffering{
				Label:  label,
				Before: prev.Sessions,
				After:  curr.Sessions,
			})
		}
	}
	return changes
}
