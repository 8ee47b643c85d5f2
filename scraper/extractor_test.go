package scraper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugForLabel(t *testing.T) {
	testCases := []struct {
		label    string
		expected string
	}{
		{"Swim Lesson Level 1: Baby Pups & Parent Seals", "swim-lesson-level-1-baby-pups-parent-seals"},
		{"Water Aerobics", "water-aerobics"},
		{"  spaced  out  ", "spaced-out"},
		{"", ""},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expected, SlugForLabel(tc.label))
	}
}

func TestLabelPrefix(t *testing.T) {
	prefix, ok := labelPrefix("Swim Lesson Level 1: Baby Pups & Parent Seals")
	require.True(t, ok)
	require.Equal(t, "Swim Lesson Level 1", prefix)

	_, ok = labelPrefix("Water Aerobics")
	require.False(t, ok)

	_, ok = labelPrefix(": leading colon")
	require.False(t, ok)
}

func TestFrameProbeOrder(t *testing.T) {
	pageURL := "https://secure.rec1.com/CA/calabasas-ca/catalog/index"
	frameURLs := []string{
		pageURL,                                  // main document
		"https://secure.rec1.com/widget/detail",  // pre-existing, same domain
		"https://ads.example.net/banner",         // pre-existing, off domain
		"https://secure.rec1.com/widget/session", // appeared with the click
	}
	preFrames := map[string]bool{
		pageURL:                                 true,
		"https://secure.rec1.com/widget/detail": true,
		"https://ads.example.net/banner":        true,
	}

	// The fresh frame comes first, then the pre-existing same-domain frame
	// that the click may have repopulated. The main document and off-domain
	// frames are never probed.
	order := frameProbeOrder(frameURLs, pageURL, preFrames, "secure.rec1.com")
	require.Equal(t, []int{3, 1}, order)
}

func TestFrameProbeOrderNoCandidates(t *testing.T) {
	pageURL := "https://secure.rec1.com/catalog"
	order := frameProbeOrder([]string{pageURL}, pageURL, map[string]bool{pageURL: true}, "secure.rec1.com")
	require.Empty(t, order)
}

func TestHostMatches(t *testing.T) {
	require.True(t, hostMatches("https://secure.rec1.com/CA/calabasas-ca/detail", "secure.rec1.com"))
	require.True(t, hostMatches("https://secure.rec1.com/x", "rec1.com"))
	require.False(t, hostMatches("https://ads.example.net/frame", "rec1.com"))
	require.True(t, hostMatches("https://anything.example", ""))
}
