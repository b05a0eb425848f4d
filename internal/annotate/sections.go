package annotate

import (
	"fmt"
	"strings"
)

// BuildSections resolves the marker stream into an ordered list of
// Sections. Output order equals marker-open order. The builder never
// fails: structural problems (unmatched closes, duplicate active ids,
// mismatched nesting) are repaired and reported as diagnostics.
//
// An open marker's range ends at its explicit close when one can still
// arrive, at the line before the next sibling open otherwise, or at EOF.
func BuildSections(markers []Marker, totalLines int) ([]Section, []Diagnostic) {
	var (
		out          []Section
		diags        []Diagnostic
		stack        []builderFrame
		rootChildren int
	)

	closes := indexCloses(markers)
	active := map[string]int{} // original id -> simultaneously open count

	closeTop := func(end int) {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		sec := &out[top.secIdx]
		if end < sec.OriginalRange.Start {
			end = sec.OriginalRange.Start
		}
		sec.OriginalRange.End = end
		active[top.origID]--
	}

	for i, m := range markers {
		switch m.Kind {
		case KindOpen:
			if m.ID == "" {
				// Tokenizer already flagged the missing id; the block is
				// still stripped but produces no section.
				continue
			}
			// An open nests under the current section only while some
			// later close can still end that section; otherwise the new
			// open is a sibling and closes it at the preceding line.
			for len(stack) > 0 && !closes.hasCloseAfter(stack[len(stack)-1].origID, i) {
				closeTop(m.LineStart - 1)
			}

			id := m.ID
			if n := active[id]; n > 0 {
				id = fmt.Sprintf("%s-%d", id, n+1)
				diags = append(diags, Diagnostic{
					Line:    m.LineStart,
					Message: fmt.Sprintf("duplicate active section id %q renamed to %q", m.ID, id),
				})
			}

			title, body := splitTitleBody(m.BodyText)
			sec := Section{
				ID:            id,
				Depth:         len(stack),
				Title:         title,
				Body:          body,
				OriginalRange: LineRange{Start: m.LineStart, End: m.LineStart},
			}
			if len(stack) == 0 {
				sec.Order = rootChildren
				rootChildren++
			} else {
				parent := &stack[len(stack)-1]
				sec.Order = parent.children
				parent.children++
			}
			out = append(out, sec)
			stack = append(stack, builderFrame{secIdx: len(out) - 1, origID: m.ID})
			active[m.ID]++

		case KindClose:
			if m.ID == "" {
				if len(stack) == 0 {
					diags = append(diags, Diagnostic{
						Line:    m.LineStart,
						Message: "CLOSE marker with no open section",
					})
					continue
				}
				closeTop(m.LineEnd)
				continue
			}

			found := -1
			for j := len(stack) - 1; j >= 0; j-- {
				if stack[j].origID == m.ID {
					found = j
					break
				}
			}
			if found == -1 {
				diags = append(diags, Diagnostic{
					Line:    m.LineStart,
					Message: fmt.Sprintf("CLOSE: %s has no matching open section", m.ID),
				})
				continue
			}
			for len(stack)-1 > found {
				crossed := out[stack[len(stack)-1].secIdx].ID
				diags = append(diags, Diagnostic{
					Line:    m.LineStart,
					Message: fmt.Sprintf("mismatched nesting: section %q forced closed by CLOSE: %s", crossed, m.ID),
				})
				closeTop(m.LineStart - 1)
			}
			closeTop(m.LineEnd)
		}
	}

	// Anything still open closes at EOF. That is defined behavior, not an
	// error, so no diagnostics here.
	for len(stack) > 0 {
		closeTop(totalLines)
	}

	return out, diags
}

type builderFrame struct {
	secIdx   int
	origID   string
	children int
}

// closeIndex answers whether any close marker past a given position could
// still end a section with a given id. Anonymous closes count for any id.
type closeIndex struct {
	lastByID map[string]int
	lastAnon int
}

func indexCloses(markers []Marker) closeIndex {
	ci := closeIndex{lastByID: map[string]int{}, lastAnon: -1}
	for i, m := range markers {
		if m.Kind != KindClose {
			continue
		}
		if m.ID == "" {
			ci.lastAnon = i
		} else {
			ci.lastByID[m.ID] = i
		}
	}
	return ci
}

func (ci closeIndex) hasCloseAfter(id string, idx int) bool {
	if last, ok := ci.lastByID[id]; ok && last > idx {
		return true
	}
	return ci.lastAnon > idx
}

// splitTitleBody derives the section title and body from a marker's raw
// body text. The title is the first non-blank line with leading markup
// characters removed; everything after it is the body, kept verbatim so
// internal line breaks and fenced code samples round-trip unchanged.
func splitTitleBody(bodyText string) (string, string) {
	if bodyText == "" {
		return "", ""
	}
	lines := strings.Split(bodyText, "\n")
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	if start == len(lines) {
		return "", ""
	}
	title := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(lines[start]), "#*- "))

	rest := lines[start+1:]
	for len(rest) > 0 && strings.TrimSpace(rest[0]) == "" {
		rest = rest[1:]
	}
	for len(rest) > 0 && strings.TrimSpace(rest[len(rest)-1]) == "" {
		rest = rest[:len(rest)-1]
	}
	return title, strings.Join(rest, "\n")
}
