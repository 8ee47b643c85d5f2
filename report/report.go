// Package report renders the plain-text change report and derives the
// process exit status from a diff.
package report

import (
	"fmt"
	"strings"
	"time"

	"civicrec-monitor/snapshot"
)

// Exit codes signalled to an external scheduler. A top-level failure also
// exits with CodeUnchanged so it cannot be mistaken for a change.
const (
	CodeUnchanged = 0
	CodeChanged   = 1
)

// Render produces the run report: a header with the tracked labels, the full
// current session listing, and one block per change category.
func Render(current []snapshot.Offering, changes snapshot.Changes, trackedLabels []string, now time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Availability report - %s\n", now.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Tracked offerings: %s\n\n", strings.Join(trackedLabels, ", "))

	sb.WriteString("Current sessions:\n")
	byLabel := make(map[string]snapshot.Offering)
	for _, off := range current {
		byLabel[off.Label] = off
	}
	for _, label := range trackedLabels {
		off, ok := byLabel[label]
		if !ok || !off.Present() {
			fmt.Fprintf(&sb, "  %s\n    no sessions found\n", label)
			continue
		}
		fmt.Fprintf(&sb, "  %s [%s]\n", off.Label, off.LocatorTag)
		writeSessions(&sb, off.Sessions, "    ")
	}

	if len(changes.Added) > 0 {
		sb.WriteString("\nAdded:\n")
		for _, off := range changes.Added {
			fmt.Fprintf(&sb, "  %s\n", off.Label)
			writeSessions(&sb, off.Sessions, "    ")
		}
	}
	if len(changes.Removed) > 0 {
		sb.WriteString("\nRemoved:\n")
		for _, off := range changes.Removed {
			fmt.Fprintf(&sb, "  %s\n", off.Label)
		}
	}
	if len(changes.Changed) > 0 {
		sb.WriteString("\nChanged:\n")
		for _, change := range changes.Changed {
			fmt.Fprintf(&sb, "  %s\n", change.Label)
			sb.WriteString("    before:\n")
			writeSessions(&sb, change.Before, "      ")
			sb.WriteString("    after:\n")
			writeSessions(&sb, change.After, "      ")
		}
	}
	return sb.String()
}

// RenderError produces the synthesized report for a run that failed before a
// snapshot could be taken.
func RenderError(runErr error, now time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Availability report - %s\n", now.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Run failed: %v\n", runErr)
	sb.WriteString("No comparison was made; the baseline is unchanged.\n")
	return sb.String()
}

// ExitCode maps a diff onto the exit status contract.
func ExitCode(changes snapshot.Changes) int {
	if changes.Any() {
		return CodeChanged
	}
	return CodeUnchanged
}

func writeSessions(sb *strings.Builder, sessions []snapshot.SessionRecord, indent string) {
	for _, rec := range sessions {
		fmt.Fprintf(sb, "%s%s @ %s\n", indent,
			strings.Join(rec.Dates, ", "), strings.Join(rec.Times, ", "))
	}
}
