package web

// debugConsoleHTML is a minimal manual test page. It is a diagnostic aid,
// not part of the extension-facing API.
const debugConsoleHTML = `<!DOCTYPE html>
<html>
<head>
<title>voicebridge console</title>
<style>
body { font-family: monospace; margin: 2em; background: #111; color: #ddd; }
textarea, input { width: 100%; background: #222; color: #ddd; border: 1px solid #444; padding: 4px; }
button { margin: 4px 4px 4px 0; padding: 6px 12px; }
pre { background: #000; padding: 1em; overflow-x: auto; min-height: 8em; }
#events { color: #8c8; }
</style>
</head>
<body>
<h2>voicebridge console</h2>

<label>Transcript / text</label>
<textarea id="input" rows="4">Summarize this page for me please</textarea>

<div>
<button onclick="post('/transcript', {transcript: val()})">transcript</button>
<button onclick="post('/summarize', {text: val()})">summarize</button>
<button onclick="post('/calculate', {query: val()})">calculate</button>
<button onclick="post('/explain', {text: val()})">explain</button>
<button onclick="speak()">text_to_speech</button>
<button onclick="post('/stop_audio', {})">stop_audio</button>
<button onclick="get('/list-tools')">list-tools</button>
<button onclick="get('/healthz')">healthz</button>
</div>

<h3>Response</h3>
<pre id="out"></pre>

<h3>Push events</h3>
<pre id="events"></pre>

<script>
const out = document.getElementById('out');
const events = document.getElementById('events');
function val() { return document.getElementById('input').value; }
function show(data) { out.textContent = JSON.stringify(data, null, 2); }

async function post(path, body) {
  const resp = await fetch(path, {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify(body),
  });
  show(await resp.json());
}

async function get(path) {
  const resp = await fetch(path);
  show(await resp.json());
}

async function speak() {
  const resp = await fetch('/text_to_speech', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({text: val()}),
  });
  if (!resp.ok) { show(await resp.json()); return; }
  const blob = await resp.blob();
  out.textContent = 'audio: ' + blob.size + ' bytes';
  new Audio(URL.createObjectURL(blob)).play();
}

const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
ws.onmessage = (ev) => { events.textContent += ev.data + '\n'; };
ws.onopen = () => { events.textContent += '(connected)\n'; };
ws.onclose = () => { events.textContent += '(disconnected)\n'; };
</script>
</body>
</html>`
