package http

import "net/http"

func dashboardHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(dashboardHTML))
}

func faviconHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

const dashboardHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Call Insights</title>
  <style>
    :root {
      --bg: #0f172a;
      --panel: #1e293b;
      --line: #334155;
      --text: #e2e8f0;
      --muted: #94a3b8;
      --agent: #2563eb;
      --customer: #475569;
      --ok: #22c55e;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      background: var(--bg);
      color: var(--text);
      font-family: "Inter", "Helvetica Neue", Arial, sans-serif;
      font-size: 14px;
    }
    header {
      display: flex;
      align-items: center;
      justify-content: space-between;
      padding: 12px 20px;
      border-bottom: 1px solid var(--line);
    }
    main {
      display: grid;
      grid-template-columns: 240px 1fr 320px;
      gap: 16px;
      padding: 16px;
      height: calc(100vh - 58px);
    }
    section {
      background: var(--panel);
      border: 1px solid var(--line);
      border-radius: 10px;
      padding: 14px;
      overflow-y: auto;
    }
    h2 { font-size: 13px; text-transform: uppercase; color: var(--muted); margin: 0 0 12px; }
    input {
      width: 100%;
      padding: 8px 10px;
      border-radius: 6px;
      border: 1px solid var(--line);
      background: var(--bg);
      color: var(--text);
      margin-bottom: 12px;
    }
    button {
      background: var(--agent);
      color: #fff;
      border: 0;
      border-radius: 6px;
      padding: 8px 14px;
      cursor: pointer;
    }
    .msg { display: flex; margin: 8px 0; }
    .msg.right { justify-content: flex-end; }
    .bubble { max-width: 70%; padding: 8px 12px; border-radius: 10px; background: var(--customer); }
    .msg.left .bubble { background: var(--agent); }
    .meta { font-size: 11px; color: var(--muted); margin-bottom: 4px; }
    .placeholder { text-align: center; color: var(--muted); margin-top: 80px; }
    .placeholder strong { display: block; color: var(--text); margin-bottom: 6px; }
    .chip { display: inline-block; padding: 3px 8px; margin: 3px; border-radius: 999px; border: 1px solid var(--line); font-size: 12px; }
    .done { text-decoration: line-through; color: var(--muted); }
    .history-item { padding: 8px 0; border-bottom: 1px solid var(--line); }
    .status { color: var(--ok); font-size: 12px; }
  </style>
</head>
<body>
  <header>
    <strong>Call Insights</strong>
    <button id="refresh">Refresh</button>
  </header>
  <main>
    <section>
      <h2>Recent analyses</h2>
      <div id="history"></div>
    </section>
    <section>
      <h2>Transcript</h2>
      <input id="search" placeholder="Search transcript..." />
      <div id="transcript"></div>
    </section>
    <section>
      <h2>AI insights</h2>
      <div id="insights"></div>
    </section>
  </main>
  <script>
    const esc = (s) => String(s).replace(/[&<>"]/g, (c) => ({"&": "&amp;", "<": "&lt;", ">": "&gt;", '"': "&quot;"}[c]));

    function placeholder(p, fallback) {
      if (!p) return '<div class="placeholder">' + esc(fallback) + '</div>';
      return '<div class="placeholder"><strong>' + esc(p.title) + '</strong>' + esc(p.hint || "") + '</div>';
    }

    function renderTranscript(p) {
      const el = document.getElementById("transcript");
      if (p.state === "loading") { el.innerHTML = placeholder(null, p.status); return; }
      if (p.state === "empty") { el.innerHTML = placeholder(p.placeholder); return; }
      el.innerHTML = (p.messages || []).map((m) =>
        '<div class="msg ' + m.align + '"><div class="bubble">' +
        '<div class="meta">' + esc(m.label) + ' · ' + esc(m.time) + '</div>' +
        esc(m.text) + '</div></div>').join("");
    }

    function renderInsights(p) {
      const summary = p.loading ? '<em>' + esc(p.status) + '</em>' : esc(p.summary);
      document.getElementById("insights").innerHTML =
        '<p>' + summary + '</p>' +
        '<p>' + esc(p.sentiment.emoji) + ' ' + esc(p.sentiment.label) + '</p>' +
        '<div>' + p.keywords.map((k) => '<span class="chip">' + esc(k) + '</span>').join("") + '</div>' +
        '<ul>' + p.actionItems.map((a) => '<li class="' + (a.completed ? "done" : "") + '">' + esc(a.text) + '</li>').join("") + '</ul>';
    }

    function renderHistory(p) {
      const el = document.getElementById("history");
      if (p.state === "loading") { el.innerHTML = placeholder(null, p.status); return; }
      if (p.state === "empty") { el.innerHTML = placeholder(p.placeholder); return; }
      el.innerHTML = p.entries.map((e) =>
        '<div class="history-item">' + esc(e.name) + '<div class="meta">' + esc(e.timestamp) +
        ' <span class="status">' + esc(e.status) + '</span></div></div>').join("");
    }

    async function poll() {
      try {
        const [t, i, h] = await Promise.all(["transcript", "insights", "history"].map((p) =>
          fetch("/v1/" + p, {cache: "no-store"}).then((r) => r.json())));
        renderTranscript(t);
        renderInsights(i);
        renderHistory(h);
      } catch (e) {
        console.error(e);
      }
    }

    document.getElementById("search").addEventListener("input", async (ev) => {
      const r = await fetch("/v1/transcript/filter", {
        method: "PUT",
        headers: {"Content-Type": "application/json"},
        body: JSON.stringify({term: ev.target.value}),
      });
      renderTranscript(await r.json());
    });

    document.getElementById("refresh").addEventListener("click", async () => {
      await fetch("/v1/refresh", {method: "POST"});
      setTimeout(poll, 300);
    });

    poll();
    setInterval(poll, 2000);
  </script>
</body>
</html>
`
