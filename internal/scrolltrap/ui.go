// Package scrolltrap serves a minimal embedded debug page. The real
// rendering layer is an external collaborator; this page exists so the
// session can be watched without one.
package scrolltrap

import "net/http"

const debugPageHTML = `<!DOCTYPE html>
<html>
<head>
<title>scrolltrap debug</title>
<style>
body { font-family: monospace; background: #111; color: #ddd; margin: 2em; }
pre { white-space: pre-wrap; word-break: break-all; }
h1 { color: #e66; }
</style>
</head>
<body>
<h1>scrolltrap session</h1>
<p>Live session state. Drive it with POST /intent/{name}.</p>
<pre id="state">connecting...</pre>
<script>
const el = document.getElementById('state');
const ws = new WebSocket('ws://' + location.host + '/session/stream');
ws.onmessage = (ev) => { el.textContent = JSON.stringify(JSON.parse(ev.data), null, 2); };
ws.onclose = () => { el.textContent += '\n[stream closed]'; };
</script>
</body>
</html>
`

// HandleDebugUI serves the embedded debug page at the server root.
func HandleDebugUI(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(debugPageHTML))
}
