package viewer

import (
	_ "embed"
	"net/http"
)

//go:embed viewer.html
var viewerHTML []byte

// ServeIndex serves the embedded dual-pane HTML shell. The client reads
// the project and file from the URL and fetches content over the API.
func (v *Viewer) ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(viewerHTML)
}
