package annotate

// Kind distinguishes opening and closing markers.
type Kind string

const (
	KindOpen  Kind = "open"
	KindClose Kind = "close"
)

// CommentStyle identifies the comment delimiter family a marker was found in.
type CommentStyle string

const (
	StyleSlash CommentStyle = "slash" // // line comments
	StyleBlock CommentStyle = "block" // /* ... */ block comments
	StyleHash  CommentStyle = "hash"  // # line comments
	StyleDash  CommentStyle = "dash"  // -- line comments
	StyleJSX   CommentStyle = "jsx"   // {/* ... */} comment braces
)

// SyntaxFamily selects which comment delimiters the tokenizer tries first
// for a given source file. Unknown families fall back to trying every
// delimiter set.
type SyntaxFamily string

const (
	FamilyCLike   SyntaxFamily = "clike"
	FamilyJSX     SyntaxFamily = "jsx"
	FamilyHash    SyntaxFamily = "hash"
	FamilySQL     SyntaxFamily = "sql"
	FamilyUnknown SyntaxFamily = "unknown"
)

// Marker is a single recognized annotation occurrence. The tokenizer emits
// one Marker per REF:/CLOSE: tag together with the comment block the tag
// lives in.
type Marker struct {
	Kind      Kind         `json:"kind"`
	ID        string       `json:"id"`
	Style     CommentStyle `json:"style"`
	LineStart int          `json:"line_start"` // first line of the comment block, 1-based
	LineEnd   int          `json:"line_end"`   // last line of the comment block, inclusive
	BodyText  string       `json:"body_text"`  // explanation text with marker syntax stripped
	Malformed bool         `json:"malformed,omitempty"`
	Note      string       `json:"note,omitempty"`

	// Source text that survives stripping on the block's boundary lines.
	CodeBefore string `json:"-"` // code preceding the comment on LineStart
	CodeAfter  string `json:"-"` // code following the comment on LineEnd
}

// LineRange is an inclusive 1-based span of lines. The zero value is the
// empty range.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// IsEmpty reports whether the range spans no lines.
func (r LineRange) IsEmpty() bool {
	return r.Start == 0
}

// Contains reports whether line falls inside the range.
func (r LineRange) Contains(line int) bool {
	return !r.IsEmpty() && line >= r.Start && line <= r.End
}

// Len returns the number of lines the range spans.
func (r LineRange) Len() int {
	if r.IsEmpty() {
		return 0
	}
	return r.End - r.Start + 1
}

// Section is a resolved unit of documentation tied to a contiguous span of
// the original file. Sections are immutable once built and ordered by the
// position of their opening marker.
type Section struct {
	ID            string    `json:"id"`
	Depth         int       `json:"depth"` // nesting level, 0 = top
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	OriginalRange LineRange `json:"original_range"`
	Order         int       `json:"order"` // position among siblings
}

// Pairing joins a Section with its corresponding line range in the stripped
// code buffer. CodeRange is empty for prose-only sections. Pairings are
// emitted in Section order, so Pairings[i] always belongs to Sections[i].
type Pairing struct {
	SectionID string    `json:"section_id"`
	CodeRange LineRange `json:"code_range"`
}

// Diagnostic describes a non-fatal problem found while parsing annotations.
// Diagnostics are for tooling output only and never abort a parse.
type Diagnostic struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Document is the complete parse result for one source file: the contract
// the documentation pane, the code pane, and the scroll synchronizer
// consume.
type Document struct {
	Sections     []Section    `json:"sections"`
	StrippedCode string       `json:"stripped_code"`
	LineMap      *LineMap     `json:"-"`
	Pairings     []Pairing    `json:"pairings"`
	Diagnostics  []Diagnostic `json:"diagnostics,omitempty"`
}

// IsEmpty reports whether the parsed file had no content at all.
func (d *Document) IsEmpty() bool {
	return d.LineMap == nil || d.LineMap.TotalLines() == 0
}
