package scrollsync

import (
	"fmt"
	"sort"
	"strings"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/annotate"
)

// DeepLinkTarget is where both panes land for a line-addressed link.
type DeepLinkTarget struct {
	SectionID string             `json:"section_id,omitempty"`
	DocTop    int                `json:"doc_top"`
	CodeTop   int                `json:"code_top"`
	Highlight annotate.LineRange `json:"highlight"`
}

// EstimateDocLayout guesses each section's rendered height before the
// client reports real measurements: one row for the title, one for
// padding, plus the prose body.
func EstimateDocLayout(sections []annotate.Section) []int {
	extents := make([]int, len(sections))
	for i, sec := range sections {
		ext := 2
		if sec.Body != "" {
			ext += strings.Count(sec.Body, "\n") + 1
		}
		extents[i] = ext
	}
	return extents
}

// SetDocLayout replaces the estimated per-section extents with measured
// ones reported by the client after render.
func (s *Synchronizer) SetDocLayout(extents []int) error {
	if len(extents) != len(s.doc.Sections) {
		return fmt.Errorf("layout has %d extents, want %d sections", len(extents), len(s.doc.Sections))
	}
	s.rebuild(extents)
	return nil
}

// rebuild lays the sections out in the doc pane, one block per section
// in document order, and collects the sections that own code into sync
// segments.
func (s *Synchronizer) rebuild(extents []int) {
	s.segments = s.segments[:0]
	row := 1
	maxDoc, maxCode := 0, 0
	for i, ext := range extents {
		if ext < 1 {
			ext = 1
		}
		docRange := annotate.LineRange{Start: row, End: row + ext - 1}
		row += ext
		if i >= len(s.doc.Pairings) || s.doc.Pairings[i].CodeRange.IsEmpty() {
			continue
		}
		code := s.doc.Pairings[i].CodeRange
		if docRange.End > maxDoc {
			maxDoc = docRange.End
		}
		if code.End > maxCode {
			maxCode = code.End
		}
		s.segments = append(s.segments, segment{
			sectionID:  s.doc.Sections[i].ID,
			doc:        docRange,
			code:       code,
			maxDocEnd:  maxDoc,
			maxCodeEnd: maxCode,
		})
	}
	s.docTotal = row - 1
}

// ResolveCounterpart maps the top visible line of one pane to the line
// the opposite pane should scroll to. Positions inside a paired range
// interpolate proportionally, positions in gaps snap to the next pairing
// below, and positions past the last pairing clamp to its end.
func (s *Synchronizer) ResolveCounterpart(source Pane, topLine int) int {
	if len(s.segments) == 0 {
		return s.proportional(source, topLine)
	}
	seg := s.segments[s.segmentFor(source, topLine)]
	src, tgt := seg.ranges(source)
	switch {
	case topLine < src.Start:
		return tgt.Start
	case topLine > src.End:
		return tgt.End
	}
	return interpolate(src, tgt, topLine)
}

// segmentFor picks the segment that governs topLine in the source pane:
// the innermost range containing it, otherwise the next range below it,
// otherwise the last range. Code ranges of nested sections overlap, so
// after the binary search the walk backtracks to the innermost match;
// the running maxEnd cuts the walk off as soon as no earlier segment
// can still contain the position.
func (s *Synchronizer) segmentFor(source Pane, topLine int) int {
	n := len(s.segments)
	above := sort.Search(n, func(i int) bool {
		src, _ := s.segments[i].ranges(source)
		return src.Start > topLine
	})
	for i := above - 1; i >= 0; i-- {
		if s.segments[i].maxEnd(source) < topLine {
			break
		}
		src, _ := s.segments[i].ranges(source)
		if src.End >= topLine {
			return i
		}
	}
	if above < n {
		return above
	}
	return n - 1
}

// proportional maps a position by whole-pane ratio. It is the fallback
// for documents with no code-owning sections at all.
func (s *Synchronizer) proportional(source Pane, topLine int) int {
	src, tgt := s.docTotal, s.codeTotal
	if source == PaneCode {
		src, tgt = s.codeTotal, s.docTotal
	}
	if src <= 1 || tgt <= 0 {
		return 1
	}
	if topLine < 1 {
		topLine = 1
	}
	if topLine > src {
		topLine = src
	}
	return 1 + (topLine-1)*(tgt-1)/(src-1)
}

// interpolate maps a position within src to the proportionally matching
// position within tgt.
func interpolate(src, tgt annotate.LineRange, line int) int {
	if src.Len() <= 1 || tgt.Len() <= 1 {
		return tgt.Start
	}
	return tgt.Start + (line-src.Start)*(tgt.Len()-1)/(src.Len()-1)
}

func (sg segment) ranges(source Pane) (src, tgt annotate.LineRange) {
	if source == PaneDoc {
		return sg.doc, sg.code
	}
	return sg.code, sg.doc
}

func (sg segment) maxEnd(source Pane) int {
	if source == PaneDoc {
		return sg.maxDocEnd
	}
	return sg.maxCodeEnd
}

// ResolveDeepLink turns 1-based original-file coordinates into scroll
// targets for both panes. Out-of-range positions clamp instead of
// failing so stale links still land somewhere sensible.
func (s *Synchronizer) ResolveDeepLink(line, lineEnd int) DeepLinkTarget {
	lm := s.doc.LineMap
	if lm == nil || lm.TotalLines() == 0 || lm.StrippedLines() == 0 {
		return DeepLinkTarget{DocTop: 1, CodeTop: 1}
	}
	total := lm.TotalLines()
	if line < 1 {
		line = 1
	}
	if line > total {
		line = total
	}
	if lineEnd < line {
		lineEnd = line
	}
	if lineEnd > total {
		lineEnd = total
	}

	start := lm.StrippedLines()
	if _, stripped, ok := lm.NextSurviving(line); ok {
		start = stripped
	}
	end := lm.ToStripped(lineEnd)
	if end < start {
		end = start
	}

	target := DeepLinkTarget{
		DocTop:    1,
		CodeTop:   start,
		Highlight: annotate.LineRange{Start: start, End: end},
	}
	if len(s.segments) == 0 {
		return target
	}
	seg := s.segments[s.segmentFor(PaneCode, start)]
	target.SectionID = seg.sectionID
	target.DocTop = seg.doc.Start
	s.highlighted = seg.sectionID
	return target
}
