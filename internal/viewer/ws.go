package viewer

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/annotate"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/scrollsync"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// syncRequest is the incoming WebSocket message format.
type syncRequest struct {
	Type         string `json:"type"` // "load", "scroll", "layout" or "deeplink"
	Project      string `json:"project,omitempty"`
	Path         string `json:"path,omitempty"`
	Pane         string `json:"pane,omitempty"`
	TopLine      int    `json:"top_line,omitempty"`
	Epoch        uint64 `json:"epoch,omitempty"`
	Programmatic bool   `json:"programmatic,omitempty"`
	Extents      []int  `json:"extents,omitempty"`
	Line         int    `json:"line,omitempty"`
	LineEnd      int    `json:"line_end,omitempty"`
}

// syncResponse is the outgoing WebSocket message format.
type syncResponse struct {
	Type      string              `json:"type"` // "loaded", "scrollTo", "highlight" or "error"
	Pane      string              `json:"pane,omitempty"`
	TopLine   int                 `json:"top_line,omitempty"`
	Epoch     uint64              `json:"epoch,omitempty"`
	SectionID string              `json:"section_id,omitempty"`
	CodeRange *annotate.LineRange `json:"code_range,omitempty"`
	Message   string              `json:"message,omitempty"`
}

// syncSession owns one synchronizer per websocket connection; a client
// switching files replaces it wholesale, so two open documents never
// share derived tables.
type syncSession struct {
	viewer *Viewer
	conn   *websocket.Conn
	sync   *scrollsync.Synchronizer
}

func (v *Viewer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		v.log.Error().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	sess := &syncSession{viewer: v, conn: conn}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				v.log.Debug().Err(err).Msg("websocket read")
			}
			return
		}

		var req syncRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			sess.sendError("invalid message format")
			continue
		}

		switch req.Type {
		case "load":
			sess.handleLoad(r, req)
		case "scroll":
			sess.handleScroll(req)
		case "layout":
			sess.handleLayout(req)
		case "deeplink":
			sess.handleDeepLink(req)
		default:
			sess.sendError("unknown message type: " + req.Type)
		}
	}
}

func (s *syncSession) handleLoad(r *http.Request, req syncRequest) {
	if req.Project == "" || req.Path == "" {
		s.sendError("project and path are required")
		return
	}

	_, doc, _, err := s.viewer.loadDocument(r.Context(), req.Project, req.Path)
	if err != nil {
		s.sendError("loading document: " + err.Error())
		return
	}
	if doc.IsEmpty() {
		s.sync = nil
		s.send(syncResponse{Type: "loaded"})
		return
	}

	s.sync = scrollsync.New(doc, scrollsync.Config{Debounce: s.viewer.cfg.SyncDebounce})
	s.send(syncResponse{Type: "loaded", Epoch: s.sync.Epoch()})
}

func (s *syncSession) handleScroll(req syncRequest) {
	if s.sync == nil {
		s.sendError("no document loaded")
		return
	}
	pane := scrollsync.Pane(req.Pane)
	if pane != scrollsync.PaneDoc && pane != scrollsync.PaneCode {
		s.sendError("unknown pane: " + req.Pane)
		return
	}

	cmd := s.sync.HandleScroll(scrollsync.Event{
		Pane:         pane,
		TopLine:      req.TopLine,
		Epoch:        req.Epoch,
		Programmatic: req.Programmatic,
	}, time.Now())
	if cmd == nil {
		// Suppressed echo of an earlier programmatic scroll.
		return
	}

	s.send(syncResponse{
		Type:    "scrollTo",
		Pane:    string(cmd.Pane),
		TopLine: cmd.TopLine,
		Epoch:   cmd.Epoch,
	})
	if snap := s.sync.Snapshot(); snap.HighlightedSection != "" {
		s.send(syncResponse{Type: "highlight", SectionID: snap.HighlightedSection})
	}
}

func (s *syncSession) handleLayout(req syncRequest) {
	if s.sync == nil {
		s.sendError("no document loaded")
		return
	}
	if err := s.sync.SetDocLayout(req.Extents); err != nil {
		s.sendError("layout: " + err.Error())
	}
}

func (s *syncSession) handleDeepLink(req syncRequest) {
	if s.sync == nil {
		s.sendError("no document loaded")
		return
	}

	target := s.sync.ResolveDeepLink(req.Line, req.LineEnd)
	s.send(syncResponse{Type: "scrollTo", Pane: string(scrollsync.PaneDoc), TopLine: target.DocTop})
	s.send(syncResponse{Type: "scrollTo", Pane: string(scrollsync.PaneCode), TopLine: target.CodeTop})
	hl := target.Highlight
	s.send(syncResponse{Type: "highlight", SectionID: target.SectionID, CodeRange: &hl})
}

func (s *syncSession) send(resp syncResponse) {
	if err := s.conn.WriteJSON(resp); err != nil {
		s.viewer.log.Debug().Err(err).Msg("websocket write")
	}
}

func (s *syncSession) sendError(message string) {
	s.send(syncResponse{Type: "error", Message: message})
}
