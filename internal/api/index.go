package api

// indexPage is a minimal built-in frontend for manual testing. Production
// deployments put a real UI in front of the API.
const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Drishti Assistant</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 2rem auto; padding: 0 1rem; }
textarea, select, button { font-size: 1rem; margin: 0.25rem 0; }
textarea { width: 100%; height: 4rem; }
pre { background: #f4f4f4; padding: 1rem; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>Drishti Assistant</h1>
<p>Type a message and pick a language. The reply arrives with an emotion label.</p>
<textarea id="msg" placeholder="Say something..."></textarea>
<div>
<select id="lang">
<option value="en">English</option>
<option value="hi">हिन्दी</option>
<option value="ta">தமிழ்</option>
<option value="te">తెలుగు</option>
<option value="kn">ಕನ್ನಡ</option>
<option value="ml">മലയാളം</option>
</select>
<button onclick="send()">Send</button>
<button onclick="scan()">Scan camera</button>
</div>
<pre id="out"></pre>
<script>
async function post(url, body) {
  const res = await fetch(url, {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify(body)
  });
  return res.json();
}
async function send() {
  const out = document.getElementById("out");
  out.textContent = "...";
  const data = await post("/phi", {
    user_input: document.getElementById("msg").value,
    language: document.getElementById("lang").value
  });
  out.textContent = JSON.stringify(data, null, 2);
}
async function scan() {
  const out = document.getElementById("out");
  out.textContent = "...";
  const data = await post("/api/vision", {
    language: document.getElementById("lang").value
  });
  out.textContent = JSON.stringify(data, null, 2);
}
</script>
</body>
</html>
`
