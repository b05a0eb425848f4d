package annotate

// Pair maps every Section's original range into stripped coordinates,
// preserving Section order. A Section whose range contains no surviving
// code gets an empty CodeRange. Child ranges are clipped to their parent's
// bounds and sibling ranges to the previous sibling's end, so the output
// always satisfies the nesting and ordering invariants even when the
// markers were malformed.
func Pair(sections []Section, lm *LineMap) []Pairing {
	pairings := make([]Pairing, 0, len(sections))

	type frame struct {
		origEnd      int
		code         LineRange
		lastChildEnd int
	}
	var stack []frame
	rootLastEnd := 0

	for _, sec := range sections {
		for len(stack) > 0 && stack[len(stack)-1].origEnd < sec.OriginalRange.Start {
			stack = stack[:len(stack)-1]
		}

		code := mapRange(sec.OriginalRange, lm)

		if len(stack) > 0 {
			parent := &stack[len(stack)-1]
			code = clip(code, parent.code)
			code = clipBefore(code, parent.lastChildEnd)
			if !code.IsEmpty() && code.End > parent.lastChildEnd {
				parent.lastChildEnd = code.End
			}
		} else {
			code = clipBefore(code, rootLastEnd)
			if !code.IsEmpty() && code.End > rootLastEnd {
				rootLastEnd = code.End
			}
		}

		pairings = append(pairings, Pairing{SectionID: sec.ID, CodeRange: code})
		stack = append(stack, frame{origEnd: sec.OriginalRange.End, code: code})
	}
	return pairings
}

// mapRange translates an original line span to stripped coordinates: the
// start maps forward to the first surviving line in the span, the end maps
// back to the last. Spans with no surviving line collapse to empty.
func mapRange(r LineRange, lm *LineMap) LineRange {
	origLine, strippedStart, ok := lm.NextSurviving(r.Start)
	if !ok || origLine > r.End {
		return LineRange{}
	}
	strippedEnd := lm.ToStripped(r.End)
	if strippedEnd < strippedStart {
		return LineRange{}
	}
	return LineRange{Start: strippedStart, End: strippedEnd}
}

// clip constrains a child range to its parent's bounds. Children of
// prose-only parents become prose-only themselves.
func clip(code, parent LineRange) LineRange {
	if code.IsEmpty() {
		return code
	}
	if parent.IsEmpty() {
		return LineRange{}
	}
	if code.Start < parent.Start {
		code.Start = parent.Start
	}
	if code.End > parent.End {
		code.End = parent.End
	}
	if code.End < code.Start {
		return LineRange{}
	}
	return code
}

// clipBefore trims the front of a range so it starts after the previous
// sibling's end.
func clipBefore(code LineRange, prevEnd int) LineRange {
	if code.IsEmpty() || code.Start > prevEnd {
		return code
	}
	code.Start = prevEnd + 1
	if code.End < code.Start {
		return LineRange{}
	}
	return code
}
