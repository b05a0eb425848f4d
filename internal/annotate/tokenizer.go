package annotate

import "strings"

const (
	openTag  = "REF:"
	closeTag = "CLOSE:"
)

// delimiters tried per syntax family, most specific first. Families not
// listed here try every known delimiter.
var familyStyles = map[SyntaxFamily][]CommentStyle{
	FamilyCLike: {StyleBlock, StyleSlash},
	FamilyJSX:   {StyleJSX, StyleBlock, StyleSlash},
	FamilyHash:  {StyleHash},
	FamilySQL:   {StyleDash},
}

var allStyles = []CommentStyle{StyleJSX, StyleBlock, StyleSlash, StyleHash, StyleDash}

func opener(style CommentStyle) string {
	switch style {
	case StyleSlash:
		return "//"
	case StyleBlock:
		return "/*"
	case StyleHash:
		return "#"
	case StyleDash:
		return "--"
	case StyleJSX:
		return "{/*"
	}
	return ""
}

func terminator(style CommentStyle) string {
	switch style {
	case StyleBlock:
		return "*/"
	case StyleJSX:
		return "*/}"
	}
	return ""
}

func isBlockStyle(style CommentStyle) bool {
	return style == StyleBlock || style == StyleJSX
}

// stylesFor returns the delimiter styles for a source file: the family's
// own set, then the remaining styles. The fallback set is only consulted
// on lines where no preferred delimiter appears; otherwise a C-like
// `count--` would shadow a trailing `// CLOSE:` comment.
func stylesFor(family SyntaxFamily) (preferred, fallback []CommentStyle) {
	own, ok := familyStyles[family]
	if !ok {
		return nil, allStyles
	}
	for _, s := range allStyles {
		found := false
		for _, o := range own {
			if o == s {
				found = true
				break
			}
		}
		if !found {
			fallback = append(fallback, s)
		}
	}
	return own, fallback
}

// Tokenize scans text line by line and returns every recognized marker in
// document order. It never fails: malformed occurrences come back as
// markers with Malformed set so the rest of the file still parses.
func Tokenize(text string, family SyntaxFamily) []Marker {
	lines := splitLines(text)
	preferred, fallback := stylesFor(family)
	t := &tokenizer{preferred: preferred, fallback: fallback, lines: lines}
	t.run()
	return t.markers
}

type tokenizer struct {
	preferred []CommentStyle
	fallback  []CommentStyle
	lines     []string
	markers   []Marker

	cur        *Marker  // marker whose comment block is still accumulating
	curBody    []string // body lines collected for cur
	blockStyle CommentStyle
}

func (t *tokenizer) run() {
	for i, raw := range t.lines {
		lineNo := i + 1
		scan := strings.TrimSuffix(raw, "\r")

		if t.blockStyle != "" {
			t.insideBlock(lineNo, scan)
			continue
		}
		if t.cur != nil && !t.continueLineComment(lineNo, scan) {
			t.finish(t.cur.LineEnd)
		}
		if t.cur == nil {
			t.freshLine(lineNo, scan)
		}
	}

	if t.cur != nil {
		if t.blockStyle != "" {
			// Block comment never terminated; the marker's block runs to EOF.
			t.cur.Malformed = true
			t.cur.Note = "unterminated block comment"
			t.finish(len(t.lines))
		} else {
			t.finish(t.cur.LineEnd)
		}
	}
}

// insideBlock handles a line inside an open /* or {/* comment. Marker tags
// on interior lines begin a new marker; everything else is prose belonging
// to the current marker, if any.
func (t *tokenizer) insideBlock(lineNo int, scan string) {
	term := terminator(t.blockStyle)
	inner := scan
	after := ""
	closed := false
	if idx := strings.Index(scan, term); idx >= 0 {
		inner = scan[:idx]
		after = scan[idx+len(term):]
		closed = true
	}

	if m, ok := matchMarker(inner); ok {
		t.finish(lineNo - 1)
		t.start(m, t.blockStyle, lineNo, "")
	} else if t.cur != nil {
		t.curBody = append(t.curBody, blockBodyLine(inner))
	}

	if closed {
		if t.cur != nil {
			if strings.TrimSpace(after) != "" {
				t.cur.CodeAfter = after
			}
			t.finish(lineNo)
		}
		t.blockStyle = ""
	}
}

// continueLineComment extends a //, #, or -- marker block when the next
// line is a whole-line comment of the same style. A tag line starts a new
// marker instead. Returns false when the block ends here.
func (t *tokenizer) continueLineComment(lineNo int, scan string) bool {
	// Trailing-comment markers never span lines.
	if t.cur.CodeBefore != "" {
		return false
	}
	delim := opener(t.cur.Style)
	trimmed := strings.TrimLeft(scan, " \t")
	if !strings.HasPrefix(trimmed, delim) {
		return false
	}
	text := strings.TrimPrefix(trimmed, delim)
	if m, ok := matchMarker(text); ok {
		style := t.cur.Style
		t.finish(lineNo - 1)
		t.start(m, style, lineNo, "")
		return true
	}
	t.curBody = append(t.curBody, strings.TrimPrefix(text, " "))
	t.cur.LineEnd = lineNo
	return true
}

// freshLine scans a line outside any comment block for a marker tag.
func (t *tokenizer) freshLine(lineNo int, scan string) {
	sc, ok := findComment(scan, t.preferred)
	if !ok {
		sc, ok = findComment(scan, t.fallback)
	}
	if !ok {
		return
	}
	m, isMarker := matchMarker(sc.text)
	if !isMarker {
		// An ordinary comment. Block comments left open still need
		// tracking so tags on their interior lines are recognized.
		if isBlockStyle(sc.style) && !sc.closed {
			t.blockStyle = sc.style
		}
		return
	}

	codeBefore := sc.before
	if strings.TrimSpace(codeBefore) == "" {
		codeBefore = ""
	}
	t.start(m, sc.style, lineNo, codeBefore)

	if isBlockStyle(sc.style) {
		if sc.closed {
			if strings.TrimSpace(sc.after) != "" {
				t.cur.CodeAfter = sc.after
			}
			t.finish(lineNo)
		} else {
			t.blockStyle = sc.style
		}
		return
	}
	if codeBefore != "" {
		// A tag trailing executable code is confined to its own line.
		t.finish(lineNo)
	}
}

func (t *tokenizer) start(m markerMatch, style CommentStyle, lineNo int, codeBefore string) {
	t.cur = &Marker{
		Kind:       m.kind,
		ID:         m.id,
		Style:      style,
		LineStart:  lineNo,
		LineEnd:    lineNo,
		Malformed:  m.malformed,
		Note:       m.note,
		CodeBefore: codeBefore,
	}
	t.curBody = nil
	if m.rest != "" {
		t.curBody = append(t.curBody, m.rest)
	}
}

func (t *tokenizer) finish(end int) {
	if t.cur == nil {
		return
	}
	if end < t.cur.LineStart {
		end = t.cur.LineStart
	}
	t.cur.LineEnd = end
	body := t.curBody
	for len(body) > 0 && strings.TrimSpace(body[len(body)-1]) == "" {
		body = body[:len(body)-1]
	}
	t.cur.BodyText = strings.Join(body, "\n")
	t.markers = append(t.markers, *t.cur)
	t.cur = nil
	t.curBody = nil
}

// lineScan locates the first comment on a line.
type lineScan struct {
	style  CommentStyle
	before string // source text preceding the comment opener
	text   string // comment text with delimiters removed
	closed bool   // block comment terminated on this same line
	after  string // source text following the terminator, if closed
}

// findComment picks the earliest opener on the line among the given
// styles.
func findComment(line string, styles []CommentStyle) (lineScan, bool) {
	best := -1
	var bestStyle CommentStyle
	for _, st := range styles {
		idx := strings.Index(line, opener(st))
		if idx >= 0 && (best == -1 || idx < best) {
			best = idx
			bestStyle = st
		}
	}
	if best == -1 {
		return lineScan{}, false
	}

	sc := lineScan{style: bestStyle, before: line[:best]}
	rest := line[best+len(opener(bestStyle)):]
	if isBlockStyle(bestStyle) {
		term := terminator(bestStyle)
		if end := strings.Index(rest, term); end >= 0 {
			sc.text = rest[:end]
			sc.closed = true
			sc.after = rest[end+len(term):]
		} else {
			sc.text = rest
		}
	} else {
		sc.text = rest
		sc.closed = true
	}
	return sc, true
}

// markerMatch is a parsed REF:/CLOSE: tag.
type markerMatch struct {
	kind      Kind
	id        string
	rest      string // text after the tag on the tag's own line
	malformed bool
	note      string
}

// matchMarker reports whether comment text begins with a marker tag.
// Leading whitespace and a decorative '*' gutter are ignored.
func matchMarker(text string) (markerMatch, bool) {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "*") && !strings.HasPrefix(t, "*/") {
		t = strings.TrimSpace(strings.TrimPrefix(t, "*"))
	}
	switch {
	case strings.HasPrefix(t, openTag):
		id, rest := splitID(t[len(openTag):])
		m := markerMatch{kind: KindOpen, id: id, rest: rest}
		if id == "" {
			m.malformed = true
			m.note = "REF marker missing id"
		}
		return m, true
	case strings.HasPrefix(t, closeTag):
		id, rest := splitID(t[len(closeTag):])
		return markerMatch{kind: KindClose, id: id, rest: rest}, true
	}
	return markerMatch{}, false
}

// splitID separates the marker id from any trailing text on the tag line.
func splitID(s string) (string, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i:])
	}
	return s, ""
}

// blockBodyLine extracts the prose of one interior block-comment line,
// removing a leading '*' gutter when present but otherwise preserving
// indentation so embedded code samples survive verbatim.
func blockBodyLine(inner string) string {
	trimmed := strings.TrimLeft(inner, " \t")
	if strings.HasPrefix(trimmed, "*") && !strings.HasPrefix(trimmed, "*/") {
		s := strings.TrimPrefix(trimmed, "*")
		return strings.TrimPrefix(s, " ")
	}
	return inner
}

// splitLines divides text into lines without the trailing newline's empty
// segment, so a file ending in "\n" has no phantom final line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
