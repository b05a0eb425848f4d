package site

// pageTemplate is the Go html/template for each exported dual-pane page.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} — {{.ProjectName}}</title>
  <link rel="stylesheet" href="{{.BasePath}}style.css">
</head>
<body>
  <nav class="sidebar">
    <div class="sidebar-header">
      <h2 class="project-title">{{.ProjectName}}</h2>
    </div>
    <div class="sidebar-tree">
      {{.TreeHTML}}
    </div>
  </nav>
  <div class="panes">
    <div class="pane pane-doc" id="doc-pane">
      {{range .Sections}}
      <div class="section" data-section-id="{{.ID}}">
        <h3>{{.Title}}</h3>
        <div class="body">{{.BodyHTML}}</div>
      </div>
      {{end}}
      {{if .Diagnostics}}
      <div class="diag">{{len .Diagnostics}} annotation diagnostic(s) in this file.</div>
      {{end}}
    </div>
    <div class="pane pane-code" id="code-pane">
      {{.CodeHTML}}
    </div>
  </div>
  <script>var PAIRINGS = {{.PairingsJSON}};</script>
  <script src="{{.BasePath}}script.js"></script>
</body>
</html>`

// indexTemplate is the template for the landing page.
const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.ProjectName}} — Codewalk</title>
  <link rel="stylesheet" href="style.css">
</head>
<body>
  <nav class="sidebar">
    <div class="sidebar-header">
      <h2 class="project-title">{{.ProjectName}}</h2>
    </div>
    <div class="sidebar-tree">
      {{.TreeHTML}}
    </div>
  </nav>
  <main class="index-content">
    <h1>{{.ProjectName}}</h1>
    <p>An annotated walkthrough of this project's source. Pick a file from the sidebar.</p>
    <ul class="stats">
      <li><strong>{{.FilesTotal}}</strong> files scanned</li>
      <li><strong>{{.FilesAnnotated}}</strong> annotated files</li>
      <li><strong>{{.SectionsTotal}}</strong> documentation sections</li>
    </ul>
  </main>
</body>
</html>`

// cssContent is the CSS for the exported site.
const cssContent = `/* ============ Layout ============ */
:root {
  --bg: #ffffff;
  --bg-sidebar: #f6f8fa;
  --bg-doc: #fbfcfd;
  --border: #d0d7de;
  --text: #1f2328;
  --text-muted: #636c76;
  --accent: #0969da;
  --highlight: #fff8c5;
  --sidebar-width: 260px;
}
* { margin: 0; padding: 0; box-sizing: border-box; }
body {
  font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif;
  color: var(--text);
  background: var(--bg);
  height: 100vh;
  display: flex;
  overflow: hidden;
}
.sidebar {
  width: var(--sidebar-width);
  min-width: var(--sidebar-width);
  background: var(--bg-sidebar);
  border-right: 1px solid var(--border);
  overflow-y: auto;
}
.sidebar-header { padding: 12px; border-bottom: 1px solid var(--border); }
.project-title { font-size: 14px; }
.sidebar-tree { padding: 8px 12px; font-size: 13px; }
.sidebar-tree ul { list-style: none; padding-left: 12px; }
.sidebar-tree > ul { padding-left: 0; }
.sidebar-tree a {
  display: block;
  padding: 2px 6px;
  border-radius: 6px;
  color: var(--text);
  text-decoration: none;
  overflow: hidden;
  text-overflow: ellipsis;
  white-space: nowrap;
}
.sidebar-tree a:hover { background: #eaeef2; }
.sidebar-tree a.active { background: var(--accent); color: #fff; }
.sidebar-tree .dir-toggle { color: var(--text-muted); cursor: default; }
.panes { flex: 1; display: flex; min-width: 0; }
.pane { flex: 1; overflow-y: auto; padding: 16px 20px; min-width: 0; }
.pane-doc { background: var(--bg-doc); border-right: 1px solid var(--border); }
.pane-code { font-family: ui-monospace, SFMono-Regular, Menlo, monospace; font-size: 13px; }
.pane-code pre { margin: 0; }
.section { margin-bottom: 28px; }
.section h3 { font-size: 16px; margin-bottom: 6px; }
.section .body { font-size: 14px; line-height: 1.6; }
.section .body pre {
  background: #f6f8fa;
  border-radius: 6px;
  padding: 10px;
  overflow-x: auto;
  margin: 8px 0;
}
.section.highlighted { background: var(--highlight); border-radius: 6px; padding: 8px; }
.diag {
  font-size: 12px;
  color: var(--text-muted);
  border-top: 1px dashed var(--border);
  margin-top: 16px;
  padding-top: 8px;
}
.index-content { flex: 1; padding: 40px; overflow-y: auto; }
.index-content h1 { margin-bottom: 12px; }
.index-content .stats { list-style: none; margin-top: 20px; }
.index-content .stats li { padding: 4px 0; }
`

// jsContent synchronizes the two panes of an exported page without a
// server: section extents are measured from the DOM, code extents come
// from the embedded pairing table, and positions interpolate within the
// matching pairing.
const jsContent = `"use strict";

(function () {
  var docPane = document.getElementById("doc-pane");
  var codePane = document.getElementById("code-pane");
  if (!docPane || !codePane || typeof PAIRINGS === "undefined") return;

  var LINE_PX = 21;
  var suppress = { doc: 0, code: 0 };

  // Lay sections out in doc-pane row coordinates and join them with their
  // code ranges.
  var segments = [];
  var row = 1;
  var sectionEls = docPane.querySelectorAll(".section");
  for (var i = 0; i < sectionEls.length; i++) {
    var ext = Math.max(1, Math.round(sectionEls[i].offsetHeight / LINE_PX));
    var docStart = row;
    row += ext;
    var p = PAIRINGS[i];
    if (!p || p.start === 0) continue;
    segments.push({
      doc: { start: docStart, end: docStart + ext - 1 },
      code: { start: p.start, end: p.end },
    });
  }

  function interpolate(src, tgt, line) {
    var srcLen = src.end - src.start + 1;
    var tgtLen = tgt.end - tgt.start + 1;
    if (srcLen <= 1 || tgtLen <= 1) return tgt.start;
    return tgt.start + Math.round(((line - src.start) * (tgtLen - 1)) / (srcLen - 1));
  }

  function counterpart(sourcePane, topLine) {
    if (segments.length === 0) return 1;
    var best = segments[segments.length - 1];
    for (var i = 0; i < segments.length; i++) {
      var src = sourcePane === "doc" ? segments[i].doc : segments[i].code;
      if (src.end >= topLine) { best = segments[i]; break; }
    }
    var src = sourcePane === "doc" ? best.doc : best.code;
    var tgt = sourcePane === "doc" ? best.code : best.doc;
    if (topLine < src.start) return tgt.start;
    if (topLine > src.end) return tgt.end;
    return interpolate(src, tgt, topLine);
  }

  function sync(sourcePane) {
    if (Date.now() < suppress[sourcePane]) return;
    var source = sourcePane === "doc" ? docPane : codePane;
    var target = sourcePane === "doc" ? codePane : docPane;
    var targetPane = sourcePane === "doc" ? "code" : "doc";
    var topLine = Math.max(1, Math.round(source.scrollTop / LINE_PX) + 1);
    suppress[targetPane] = Date.now() + 200;
    target.scrollTop = (counterpart(sourcePane, topLine) - 1) * LINE_PX;
  }

  docPane.addEventListener("scroll", function () { sync("doc"); }, { passive: true });
  codePane.addEventListener("scroll", function () { sync("code"); }, { passive: true });
})();
`
