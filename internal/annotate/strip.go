package annotate

import "strings"

// RemovedLine records one original line the stripper removed or rewrote,
// keeping the original text so callers can reconstruct the source.
type RemovedLine struct {
	Line    int    `json:"line"`
	Text    string `json:"text"`
	Partial bool   `json:"partial,omitempty"` // line kept a code remnant
}

// LineMap is a monotonic mapping between original and stripped line
// coordinates. Original lines wholly consumed by a documentation comment
// map to the nearest preceding surviving line, or to 0 when no code
// precedes them.
type LineMap struct {
	floor     []int  // original line -> stripped line at-or-before it
	next      []int  // original line -> stripped number of first survivor at/after
	nextOrig  []int  // original line -> original number of that survivor
	orig      []int  // stripped line -> original line
	surviving []bool // original line -> survived stripping
	removed   []RemovedLine

	total    int
	stripped int
}

// TotalLines returns the number of lines in the original file.
func (m *LineMap) TotalLines() int { return m.total }

// StrippedLines returns the number of lines in the stripped buffer.
func (m *LineMap) StrippedLines() int { return m.stripped }

// ToStripped maps an original line to the stripped line at or before it.
// Returns 0 for lines preceding all surviving code. Out-of-range input is
// clamped, never an error.
func (m *LineMap) ToStripped(line int) int {
	if m.total == 0 || line < 1 {
		return 0
	}
	if line > m.total {
		return m.stripped
	}
	return m.floor[line]
}

// NextSurviving returns the first surviving line at or after the given
// original line, as (original, stripped). ok is false when no code follows.
func (m *LineMap) NextSurviving(line int) (origLine, strippedLine int, ok bool) {
	if m.total == 0 || line > m.total {
		return 0, 0, false
	}
	if line < 1 {
		line = 1
	}
	if m.nextOrig[line] == 0 {
		return 0, 0, false
	}
	return m.nextOrig[line], m.next[line], true
}

// ToOriginal maps a stripped line back to the original line it came from.
// Out-of-range input is clamped.
func (m *LineMap) ToOriginal(strippedLine int) int {
	if m.stripped == 0 {
		return 0
	}
	if strippedLine < 1 {
		strippedLine = 1
	}
	if strippedLine > m.stripped {
		strippedLine = m.stripped
	}
	return m.orig[strippedLine]
}

// Survives reports whether an original line is present in the stripped
// buffer (possibly with its trailing comment removed).
func (m *LineMap) Survives(line int) bool {
	if line < 1 || line > m.total {
		return false
	}
	return m.surviving[line]
}

// Removed returns the lines the stripper removed or rewrote, in original
// order.
func (m *LineMap) Removed() []RemovedLine { return m.removed }

// Strip removes every line owned by a recognized documentation comment and
// returns the remaining source plus the line map between the two
// coordinate spaces. Lines mixing code with a marker comment keep their
// code portion.
func Strip(text string, markers []Marker) (string, *LineMap) {
	lines := splitLines(text)
	total := len(lines)

	type edit struct {
		remove bool
		prefix string
		suffix string
	}
	plan := make([]edit, total+1)
	for _, m := range markers {
		for ln := m.LineStart; ln <= m.LineEnd && ln <= total; ln++ {
			e := &plan[ln]
			e.remove = true
			if ln == m.LineStart {
				e.prefix = m.CodeBefore
			}
			if ln == m.LineEnd {
				e.suffix = m.CodeAfter
			}
		}
	}

	lm := &LineMap{
		floor:     make([]int, total+1),
		next:      make([]int, total+2),
		nextOrig:  make([]int, total+2),
		orig:      make([]int, 1, total+1),
		surviving: make([]bool, total+1),
		total:     total,
	}

	var kept []string
	for ln := 1; ln <= total; ln++ {
		raw := lines[ln-1]
		e := plan[ln]
		if !e.remove {
			kept = append(kept, raw)
			lm.keep(ln)
			continue
		}
		content := joinRemnant(e.prefix, e.suffix)
		if strings.TrimSpace(content) != "" {
			kept = append(kept, content)
			lm.removed = append(lm.removed, RemovedLine{Line: ln, Text: raw, Partial: true})
			lm.keep(ln)
			continue
		}
		lm.removed = append(lm.removed, RemovedLine{Line: ln, Text: raw})
		lm.floor[ln] = len(kept)
	}

	for ln := total; ln >= 1; ln-- {
		if lm.surviving[ln] {
			lm.nextOrig[ln] = ln
			lm.next[ln] = lm.floor[ln]
		} else {
			lm.nextOrig[ln] = lm.nextOrig[ln+1]
			lm.next[ln] = lm.next[ln+1]
		}
	}

	stripped := strings.Join(kept, "\n")
	if len(kept) > 0 && strings.HasSuffix(text, "\n") {
		stripped += "\n"
	}
	return stripped, lm
}

func (m *LineMap) keep(ln int) {
	m.stripped++
	m.floor[ln] = m.stripped
	m.surviving[ln] = true
	m.orig = append(m.orig, ln)
}

// joinRemnant merges the code retained around a removed comment. The
// whitespace that separated code from comment goes with the comment.
func joinRemnant(prefix, suffix string) string {
	p := strings.TrimRight(prefix, " \t")
	if p == "" {
		return strings.TrimLeft(suffix, " \t")
	}
	return p + suffix
}
