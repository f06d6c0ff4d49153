package core

import (
	"strings"
	"unicode"
)

type KeyKind int

const (
	KeyIgnored KeyKind = iota
	KeyRune
	KeyBackspace
	KeyClear
	KeyUp
	KeyDown
	KeyEnter
	KeyInterrupt
)

// Key is one logical keystroke, independent of how the terminal encoded
// it.
type Key struct {
	Kind KeyKind
	Rune rune
}

type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeCommit
	OutcomeInterrupt
)

const selectorWindow = 3

// Selector is the state of one interactive version pick. It is driven by
// Apply and never touches the terminal itself.
type Selector struct {
	query    []rune
	versions []string
	filtered []string
	selected int
}

// NewSelector starts with an empty query and the cursor on wanted when it
// is one of the versions.
func NewSelector(versions []string, wanted string) *Selector {
	s := &Selector{
		versions: append([]string(nil), versions...),
	}
	s.filtered = s.versions
	for i, version := range s.versions {
		if version == wanted {
			s.selected = i
			break
		}
	}
	return s
}

// Apply reduces one key into the state and reports whether the session
// should end.
func (s *Selector) Apply(key Key) Outcome {
	switch key.Kind {
	case KeyRune:
		if key.Rune == ' ' || !unicode.IsPrint(key.Rune) {
			return OutcomePending
		}
		s.query = append(s.query, key.Rune)
		s.refilter()
	case KeyBackspace:
		if len(s.query) > 0 {
			s.query = s.query[:len(s.query)-1]
			s.refilter()
		}
	case KeyClear:
		if len(s.query) > 0 {
			s.query = nil
			s.refilter()
		}
	case KeyUp:
		if s.selected < len(s.filtered)-1 {
			s.selected++
		}
	case KeyDown:
		if s.selected > 0 {
			s.selected--
		}
	case KeyEnter:
		if len(s.filtered) > 0 {
			return OutcomeCommit
		}
	case KeyInterrupt:
		return OutcomeInterrupt
	}
	return OutcomePending
}

func (s *Selector) refilter() {
	previous := s.Selected()
	query := string(s.query)
	if query == "" {
		s.filtered = s.versions
	} else {
		filtered := make([]string, 0, len(s.versions))
		for _, version := range s.versions {
			if FuzzyMatch(query, version) {
				filtered = append(filtered, version)
			}
		}
		s.filtered = filtered
	}
	s.selected = 0
	for i, version := range s.filtered {
		if version == previous {
			s.selected = i
			break
		}
	}
}

func (s *Selector) Query() string {
	return string(s.query)
}

func (s *Selector) Filtered() []string {
	return s.filtered
}

func (s *Selector) SelectedIndex() int {
	return s.selected
}

// Selected is the version under the cursor, or "" when nothing matches.
func (s *Selector) Selected() string {
	if s.selected < 0 || s.selected >= len(s.filtered) {
		return ""
	}
	return s.filtered[s.selected]
}

// Window returns at most three filtered entries centered on the cursor and
// the cursor position inside them.
func (s *Selector) Window() ([]string, int) {
	if len(s.filtered) == 0 {
		return nil, -1
	}
	start := s.selected - selectorWindow/2
	if start < 0 {
		start = 0
	}
	end := start + selectorWindow
	if end > len(s.filtered) {
		end = len(s.filtered)
		start = end - selectorWindow
		if start < 0 {
			start = 0
		}
	}
	return s.filtered[start:end], s.selected - start
}

// Render is the single prompt line for the current state.
func (s *Selector) Render(name string) string {
	var builder strings.Builder
	builder.WriteString("? ")
	builder.WriteString(name)
	builder.WriteString(" > ")
	builder.WriteString(string(s.query))
	builder.WriteString("  ")
	entries, cursor := s.Window()
	if len(entries) == 0 {
		builder.WriteString("(no match)")
		return builder.String()
	}
	for i, entry := range entries {
		if i > 0 {
			builder.WriteString(" ")
		}
		if i == cursor {
			builder.WriteString("[" + entry + "]")
			continue
		}
		builder.WriteString(" " + entry + " ")
	}
	return builder.String()
}

// FuzzyMatch reports whether the runes of query appear in candidate in
// order, ignoring case. They need not be adjacent.
func FuzzyMatch(query string, candidate string) bool {
	want := []rune(strings.ToLower(query))
	if len(want) == 0 {
		return true
	}
	i := 0
	for _, r := range strings.ToLower(candidate) {
		if r == want[i] {
			i++
			if i == len(want) {
				return true
			}
		}
	}
	return false
}
