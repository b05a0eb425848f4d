package annotate

import (
	"fmt"
	"sort"
)

// Parse runs the full annotation pipeline on one source file: tokenize the
// marker comments, resolve them into Sections, strip the documentation
// comments out of the code, and pair each Section with its stripped-code
// range. Parse never fails; imperfect annotations degrade into diagnostics
// so a single malformed comment cannot take down the viewer.
func Parse(text string, family SyntaxFamily) *Document {
	markers := Tokenize(text, family)
	totalLines := len(splitLines(text))

	sections, diags := BuildSections(markers, totalLines)
	stripped, lm := Strip(text, markers)
	pairings := Pair(sections, lm)

	for _, m := range markers {
		if m.Malformed {
			diags = append(diags, Diagnostic{
				Line:    m.LineStart,
				Message: fmt.Sprintf("malformed %s marker: %s", m.Kind, m.Note),
			})
		}
	}
	sort.SliceStable(diags, func(i, j int) bool { return diags[i].Line < diags[j].Line })

	return &Document{
		Sections:     sections,
		StrippedCode: stripped,
		LineMap:      lm,
		Pairings:     pairings,
		Diagnostics:  diags,
	}
}
