package scrollsync

import (
	"time"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/annotate"
)

type Pane string

const (
	PaneDoc  Pane = "doc"
	PaneCode Pane = "code"
)

// Other returns the opposite pane.
func (p Pane) Other() Pane {
	if p == PaneDoc {
		return PaneCode
	}
	return PaneDoc
}

type State string

const (
	StateIdle            State = "idle"
	StateSyncingFromDoc  State = "syncing_from_doc"
	StateSyncingFromCode State = "syncing_from_code"
)

// Event is one scroll notification from a pane. Programmatic events are
// echoes of commands this synchronizer issued earlier and carry the
// epoch of the command that caused them.
type Event struct {
	Pane         Pane   `json:"pane"`
	TopLine      int    `json:"top_line"`
	Epoch        uint64 `json:"epoch"`
	Programmatic bool   `json:"programmatic"`
}

// Command instructs one pane to scroll so TopLine becomes its first
// visible line.
type Command struct {
	Pane    Pane   `json:"pane"`
	TopLine int    `json:"top_line"`
	Epoch   uint64 `json:"epoch"`
}

// ScrollState is a snapshot handed to clients that join or reconnect
// mid-session.
type ScrollState struct {
	State              State  `json:"state"`
	ActivePane         Pane   `json:"active_pane"`
	TopVisibleLine     int    `json:"top_visible_line"`
	HighlightedSection string `json:"highlighted_section,omitempty"`
	Epoch              uint64 `json:"epoch"`
}

type Config struct {
	// Debounce is how long after the last scroll activity the
	// synchronizer falls back to idle.
	Debounce time.Duration
}

const DefaultDebounce = 150 * time.Millisecond

// Synchronizer keeps the prose pane and the code pane of one document
// aligned for a single viewer session. It is not safe for concurrent
// use; each session owns its own instance.
type Synchronizer struct {
	doc *annotate.Document

	segments  []segment
	docTotal  int
	codeTotal int

	state        State
	epoch        uint64
	lastActivity time.Time
	debounce     time.Duration

	activePane  Pane
	topLine     int
	highlighted string
}

// segment is one section that owns code, with its rendered extent in the
// doc pane and its stripped range in the code pane. maxDocEnd and
// maxCodeEnd carry the running maximum of range ends over all segments
// up to this one, which bounds the backward walk in segmentFor.
type segment struct {
	sectionID  string
	doc        annotate.LineRange
	code       annotate.LineRange
	maxDocEnd  int
	maxCodeEnd int
}

func New(doc *annotate.Document, cfg Config) *Synchronizer {
	s := &Synchronizer{
		doc:        doc,
		state:      StateIdle,
		debounce:   cfg.Debounce,
		activePane: PaneDoc,
		topLine:    1,
	}
	if s.debounce <= 0 {
		s.debounce = DefaultDebounce
	}
	if doc.LineMap != nil {
		s.codeTotal = doc.LineMap.StrippedLines()
	}
	s.rebuild(EstimateDocLayout(doc.Sections))
	return s
}

// HandleScroll feeds one pane event through the state machine. The
// returned command, when non-nil, drives the opposite pane.
func (s *Synchronizer) HandleScroll(ev Event, now time.Time) *Command {
	if ev.Programmatic && ev.Epoch <= s.epoch {
		// Echo of a command we issued, possibly arriving late after a
		// newer user scroll. Absorbing it keeps the panes from
		// ping-ponging.
		return nil
	}

	s.epoch++
	s.lastActivity = now
	s.activePane = ev.Pane
	s.topLine = ev.TopLine
	if ev.Pane == PaneDoc {
		s.state = StateSyncingFromDoc
	} else {
		s.state = StateSyncingFromCode
	}
	s.highlighted = s.sectionAt(ev.Pane, ev.TopLine)

	return &Command{
		Pane:    ev.Pane.Other(),
		TopLine: s.ResolveCounterpart(ev.Pane, ev.TopLine),
		Epoch:   s.epoch,
	}
}

// Tick reports whether the synchronizer fell back to idle because no
// scroll activity arrived within the debounce window.
func (s *Synchronizer) Tick(now time.Time) bool {
	if s.state == StateIdle {
		return false
	}
	if now.Sub(s.lastActivity) < s.debounce {
		return false
	}
	s.state = StateIdle
	return true
}

func (s *Synchronizer) State() State {
	return s.state
}

func (s *Synchronizer) Epoch() uint64 {
	return s.epoch
}

func (s *Synchronizer) Snapshot() ScrollState {
	return ScrollState{
		State:              s.state,
		ActivePane:         s.activePane,
		TopVisibleLine:     s.topLine,
		HighlightedSection: s.highlighted,
		Epoch:              s.epoch,
	}
}

// sectionAt names the section whose range covers topLine in the given
// pane, or "" when the position falls outside every paired section.
func (s *Synchronizer) sectionAt(source Pane, topLine int) string {
	if len(s.segments) == 0 {
		return ""
	}
	seg := s.segments[s.segmentFor(source, topLine)]
	src, _ := seg.ranges(source)
	if topLine < src.Start || topLine > src.End {
		return ""
	}
	return seg.sectionID
}
