package viewer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/db"
	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/registry"
)

const annotatedSource = `// REF: setup
// Initialize the widget counter.
var count = 0
// CLOSE: setup
// REF: increment
// Bump the counter by one.
func inc() { count++ }
// CLOSE: increment
`

func setupTest(t *testing.T) (*Viewer, string) {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "counter.go"), []byte(annotatedSource), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "empty.go"), nil, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	store := registry.NewStore(database)
	if err := store.Add(t.Context(), &registry.Project{Name: "demo", RootPath: root}); err != nil {
		t.Fatalf("registering project: %v", err)
	}

	v := New(store, Config{Theme: "github"}, zerolog.Nop())
	return v, root
}

func setupRouter(v *Viewer) chi.Router {
	r := chi.NewRouter()
	v.RegisterRoutes(r)
	return r
}

func TestViewEndpoint(t *testing.T) {
	v, _ := setupTest(t)
	r := setupRouter(v)

	req := httptest.NewRequest("GET", "/api/view/demo/counter.go", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp viewResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(resp.Sections))
	}
	if resp.Sections[0].ID != "setup" || resp.Sections[1].ID != "increment" {
		t.Errorf("unexpected section ids: %s, %s", resp.Sections[0].ID, resp.Sections[1].ID)
	}
	if strings.Contains(resp.StrippedCode, "REF:") {
		t.Errorf("stripped code still contains markers: %q", resp.StrippedCode)
	}
	if !strings.Contains(resp.StrippedCode, "var count = 0") {
		t.Errorf("stripped code lost source: %q", resp.StrippedCode)
	}
	if resp.CodeHTML == "" {
		t.Error("expected rendered code HTML")
	}
	if len(resp.Pairings) != 2 {
		t.Errorf("expected 2 pairings, got %d", len(resp.Pairings))
	}
}

func TestViewDeepLink(t *testing.T) {
	v, _ := setupTest(t)
	r := setupRouter(v)

	req := httptest.NewRequest("GET", "/api/view/demo/counter.go?line=7&lineEnd=7", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp viewResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.DeepLink == nil {
		t.Fatal("expected deep link target")
	}
	if resp.DeepLink.SectionID != "increment" {
		t.Errorf("expected section increment, got %q", resp.DeepLink.SectionID)
	}
}

func TestViewNotFound(t *testing.T) {
	v, _ := setupTest(t)
	r := setupRouter(v)

	req := httptest.NewRequest("GET", "/api/view/demo/nope.go", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestViewRejectsTraversal(t *testing.T) {
	v, _ := setupTest(t)
	r := setupRouter(v)

	req := httptest.NewRequest("GET", "/api/view/demo/../../../etc/passwd", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code == http.StatusOK {
		t.Fatal("expected traversal request to be rejected")
	}
}

func TestViewEmptyFile(t *testing.T) {
	v, _ := setupTest(t)
	r := setupRouter(v)

	req := httptest.NewRequest("GET", "/api/view/demo/empty.go", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty file, got %d", w.Code)
	}
	var resp viewResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Empty {
		t.Error("expected distinct empty payload")
	}
}

func TestFilesEndpoint(t *testing.T) {
	v, _ := setupTest(t)
	r := setupRouter(v)

	req := httptest.NewRequest("GET", "/api/projects/demo/files", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var files []fileEntry
	if err := json.Unmarshal(w.Body.Bytes(), &files); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	found := false
	for _, f := range files {
		if f.Path == "counter.go" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected counter.go in listing, got %+v", files)
	}
}

func TestServeIndex(t *testing.T) {
	v, _ := setupTest(t)
	r := setupRouter(v)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("expected text/html content type, got %q", ct)
	}
	if !strings.Contains(w.Body.String(), "Codewalk Viewer") {
		t.Error("expected HTML to contain 'Codewalk Viewer'")
	}
}

func dialSync(t *testing.T, v *Viewer) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(setupRouter(v))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/sync"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketScrollBeforeLoad(t *testing.T) {
	v, _ := setupTest(t)
	conn := dialSync(t, v)

	if err := conn.WriteJSON(syncRequest{Type: "scroll", Pane: "doc", TopLine: 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var resp syncResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "error" {
		t.Errorf("expected error type, got %q", resp.Type)
	}
	if !strings.Contains(resp.Message, "no document loaded") {
		t.Errorf("expected no-document error, got %q", resp.Message)
	}
}

func TestWebSocketLoadAndScroll(t *testing.T) {
	v, _ := setupTest(t)
	conn := dialSync(t, v)

	if err := conn.WriteJSON(syncRequest{Type: "load", Project: "demo", Path: "counter.go"}); err != nil {
		t.Fatalf("write load: %v", err)
	}
	var resp syncResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read loaded: %v", err)
	}
	if resp.Type != "loaded" {
		t.Fatalf("expected loaded, got %q (%s)", resp.Type, resp.Message)
	}

	if err := conn.WriteJSON(syncRequest{Type: "scroll", Pane: "code", TopLine: 1}); err != nil {
		t.Fatalf("write scroll: %v", err)
	}
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read scrollTo: %v", err)
	}
	if resp.Type != "scrollTo" {
		t.Fatalf("expected scrollTo, got %q", resp.Type)
	}
	if resp.Pane != "doc" {
		t.Errorf("expected counterpart pane doc, got %q", resp.Pane)
	}
	if resp.TopLine < 1 {
		t.Errorf("expected positive top line, got %d", resp.TopLine)
	}
}

func TestWebSocketDeepLinkClamps(t *testing.T) {
	v, _ := setupTest(t)
	conn := dialSync(t, v)

	if err := conn.WriteJSON(syncRequest{Type: "load", Project: "demo", Path: "counter.go"}); err != nil {
		t.Fatalf("write load: %v", err)
	}
	var resp syncResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read loaded: %v", err)
	}

	// Line far past EOF must clamp, never error.
	if err := conn.WriteJSON(syncRequest{Type: "deeplink", Line: 500}); err != nil {
		t.Fatalf("write deeplink: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatalf("read deeplink response %d: %v", i, err)
		}
		if resp.Type == "error" {
			t.Fatalf("deep link past EOF should clamp, got error %q", resp.Message)
		}
	}
	if resp.Type != "highlight" {
		t.Errorf("expected final highlight message, got %q", resp.Type)
	}
}

func TestWebSocketUnknownType(t *testing.T) {
	v, _ := setupTest(t)
	conn := dialSync(t, v)

	if err := conn.WriteJSON(syncRequest{Type: "bogus"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var resp syncResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "error" || !strings.Contains(resp.Message, "unknown message type") {
		t.Errorf("expected unknown type error, got %+v", resp)
	}
}
