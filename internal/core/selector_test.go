package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func typeQuery(s *Selector, query string) {
	for _, r := range query {
		s.Apply(Key{Kind: KeyRune, Rune: r})
	}
}

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		query     string
		candidate string
		expected  bool
	}{
		{query: "1x", candidate: "1.2.x-beta", expected: true},
		{query: "1x", candidate: "2.1.0", expected: false},
		{query: "", candidate: "2.1.0", expected: true},
		{query: "BETA", candidate: "3.0.0-beta.1", expected: true},
		{query: "210", candidate: "2.1.0", expected: true},
		{query: "012", candidate: "2.1.0", expected: false},
		{query: "2.1.0.1", candidate: "2.1.0", expected: false},
	}
	for _, tt := range tests {
		t.Run(tt.query+"/"+tt.candidate, func(t *testing.T) {
			assert.Equal(t, tt.expected, FuzzyMatch(tt.query, tt.candidate))
		})
	}
}

func TestNewSelectorStartsOnWanted(t *testing.T) {
	s := NewSelector([]string{"1.0.0", "1.1.0", "2.0.0"}, "1.1.0")
	assert.Equal(t, 1, s.SelectedIndex())
	assert.Equal(t, "1.1.0", s.Selected())

	s = NewSelector([]string{"1.0.0", "1.1.0"}, "9.9.9")
	assert.Equal(t, 0, s.SelectedIndex())
}

func TestSelectorEmptyQueryKeepsRegistryOrder(t *testing.T) {
	versions := []string{"2.0.0", "1.0.0", "1.10.0", "1.2.0"}
	s := NewSelector(versions, "")
	typeQuery(s, "1")
	s.Apply(Key{Kind: KeyBackspace})
	if diff := cmp.Diff(versions, s.Filtered()); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestSelectorFiltersOnEveryKeystroke(t *testing.T) {
	s := NewSelector([]string{"1.0.0", "1.2.x-beta", "2.1.0", "3.0.0-beta.1"}, "")

	s.Apply(Key{Kind: KeyRune, Rune: '1'})
	assert.Equal(t, []string{"1.0.0", "1.2.x-beta", "2.1.0", "3.0.0-beta.1"}, s.Filtered())

	s.Apply(Key{Kind: KeyRune, Rune: 'x'})
	assert.Equal(t, []string{"1.2.x-beta"}, s.Filtered())
	assert.Equal(t, "1x", s.Query())

	s.Apply(Key{Kind: KeyBackspace})
	assert.Equal(t, "1", s.Query())
	assert.Len(t, s.Filtered(), 4)
}

func TestSelectorKeepsSelectionWhenItSurvivesFilter(t *testing.T) {
	s := NewSelector([]string{"1.0.0", "1.1.0", "2.0.0", "2.1.0"}, "2.1.0")
	typeQuery(s, "2")
	assert.Equal(t, "2.1.0", s.Selected())
	assert.Equal(t, 1, s.SelectedIndex())

	typeQuery(s, ".0")
	// "2.1.0" still contains 2, ., 0 in order
	assert.Equal(t, "2.1.0", s.Selected())
}

func TestSelectorResetsSelectionWhenFilteredOut(t *testing.T) {
	s := NewSelector([]string{"1.0.0", "1.1.0", "2.0.0", "2.1.0"}, "1.1.0")
	typeQuery(s, "2")
	assert.Equal(t, 0, s.SelectedIndex())
	assert.Equal(t, "2.0.0", s.Selected())
}

func TestSelectorIgnoresSpaceAndControlRunes(t *testing.T) {
	s := NewSelector([]string{"1.0.0"}, "")
	s.Apply(Key{Kind: KeyRune, Rune: ' '})
	s.Apply(Key{Kind: KeyRune, Rune: '\x07'})
	s.Apply(Key{Kind: KeyIgnored})
	assert.Equal(t, "", s.Query())
}

func TestSelectorClearQuery(t *testing.T) {
	s := NewSelector([]string{"1.0.0", "2.0.0"}, "")
	typeQuery(s, "2.0")
	assert.Len(t, s.Filtered(), 1)
	s.Apply(Key{Kind: KeyClear})
	assert.Equal(t, "", s.Query())
	assert.Len(t, s.Filtered(), 2)
	assert.Equal(t, "2.0.0", s.Selected())
}

func TestSelectorNavigationClamps(t *testing.T) {
	s := NewSelector([]string{"1.0.0", "1.1.0", "1.2.0"}, "1.0.0")

	s.Apply(Key{Kind: KeyDown})
	assert.Equal(t, 0, s.SelectedIndex())

	s.Apply(Key{Kind: KeyUp})
	s.Apply(Key{Kind: KeyUp})
	s.Apply(Key{Kind: KeyUp})
	assert.Equal(t, 2, s.SelectedIndex())

	s.Apply(Key{Kind: KeyDown})
	assert.Equal(t, "1.1.0", s.Selected())
}

func TestSelectorCommitRequiresMatch(t *testing.T) {
	s := NewSelector([]string{"1.0.0", "2.0.0"}, "2.0.0")
	typeQuery(s, "zz")
	assert.Empty(t, s.Filtered())
	assert.Equal(t, OutcomePending, s.Apply(Key{Kind: KeyEnter}))
	assert.Equal(t, "", s.Selected())

	s.Apply(Key{Kind: KeyClear})
	assert.Equal(t, OutcomeCommit, s.Apply(Key{Kind: KeyEnter}))
	assert.Equal(t, "1.0.0", s.Selected())
}

func TestSelectorInterrupt(t *testing.T) {
	s := NewSelector([]string{"1.0.0"}, "1.0.0")
	assert.Equal(t, OutcomeInterrupt, s.Apply(Key{Kind: KeyInterrupt}))
}

func TestSelectorWindow(t *testing.T) {
	versions := []string{"1", "2", "3", "4", "5"}
	tests := []struct {
		name     string
		wanted   string
		entries  []string
		position int
	}{
		{name: "first", wanted: "1", entries: []string{"1", "2", "3"}, position: 0},
		{name: "middle", wanted: "3", entries: []string{"2", "3", "4"}, position: 1},
		{name: "last", wanted: "5", entries: []string{"3", "4", "5"}, position: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelector(versions, tt.wanted)
			entries, position := s.Window()
			assert.Equal(t, tt.entries, entries)
			assert.Equal(t, tt.position, position)
		})
	}

	short := NewSelector([]string{"1", "2"}, "2")
	entries, position := short.Window()
	assert.Equal(t, []string{"1", "2"}, entries)
	assert.Equal(t, 1, position)

	empty := NewSelector(nil, "")
	entries, position = empty.Window()
	assert.Empty(t, entries)
	assert.Equal(t, -1, position)
}

func TestSelectorRender(t *testing.T) {
	s := NewSelector([]string{"1.0.0", "1.1.0", "2.0.0"}, "1.1.0")
	assert.Equal(t, "? lodash >    1.0.0  [1.1.0]  2.0.0 ", s.Render("lodash"))

	typeQuery(s, "zz")
	assert.Equal(t, "? lodash > zz  (no match)", s.Render("lodash"))
}
