package widget

// loaderTemplate is the script a host page embeds with a single <script>
// tag. It derives the server origin from its own src, draws the floating
// button, and lazily injects the iframe chat UI on first click.
const loaderTemplate = `(function () {
  "use strict";

  var script = document.currentScript;
  var origin = new URL(script.src).origin;
  var side = {{if eq .Position "bottom-left"}}"left"{{else}}"right"{{end}};

  var button = document.createElement("button");
  button.setAttribute("aria-label", "{{.Title}}");
  button.innerHTML = "&#128172;";
  button.style.cssText = [
    "position:fixed", "bottom:24px", side + ":24px", "width:56px", "height:56px",
    "border-radius:50%", "border:none", "cursor:pointer", "font-size:26px",
    "color:#fff", "background:{{.AccentColor}}",
    "box-shadow:0 4px 12px rgba(0,0,0,.25)", "z-index:2147483646"
  ].join(";");

  var frame = null;
  var open = false;

  function ensureFrame() {
    if (frame) return;
    frame = document.createElement("iframe");
    frame.src = origin + "/chat";
    frame.title = "{{.Title}}";
    frame.style.cssText = [
      "position:fixed", "bottom:92px", side + ":24px", "width:360px", "height:520px",
      "max-height:calc(100vh - 116px)", "border:none", "border-radius:12px",
      "box-shadow:0 8px 24px rgba(0,0,0,.3)", "z-index:2147483647", "display:none",
      "background:#fff"
    ].join(";");
    document.body.appendChild(frame);
  }

  button.addEventListener("click", function () {
    ensureFrame();
    open = !open;
    frame.style.display = open ? "block" : "none";
  });

  document.body.appendChild(button);
})();
`

// chatTemplate is the page loaded inside the widget iframe. It fetches the
// welcome message on load and posts each user turn, with the accumulated
// conversation, to /api/chat.
const chatTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  * { box-sizing: border-box; }
  body { margin: 0; font-family: system-ui, sans-serif; display: flex; flex-direction: column; height: 100vh; }
  header { background: {{.AccentColor}}; color: #fff; padding: 12px 16px; font-weight: 600; }
  #log { flex: 1; overflow-y: auto; padding: 12px; display: flex; flex-direction: column; gap: 8px; }
  .msg { max-width: 80%; padding: 8px 12px; border-radius: 12px; white-space: pre-wrap; }
  .user { align-self: flex-end; background: {{.AccentColor}}; color: #fff; }
  .assistant { align-self: flex-start; background: #f1f1f4; color: #111; }
  form { display: flex; border-top: 1px solid #e5e5ea; }
  input { flex: 1; border: none; padding: 12px; font-size: 14px; outline: none; }
  button { border: none; background: none; color: {{.AccentColor}}; font-weight: 600; padding: 0 16px; cursor: pointer; }
</style>
</head>
<body>
<header>{{.Title}}</header>
<div id="log"></div>
<form id="form">
  <input id="input" placeholder="Type a message" autocomplete="off">
  <button type="submit">Send</button>
</form>
<script>
  var log = document.getElementById("log");
  var form = document.getElementById("form");
  var input = document.getElementById("input");
  var messages = [];
  var conversationID = "";

  function append(role, text) {
    var div = document.createElement("div");
    div.className = "msg " + role;
    div.textContent = text;
    log.appendChild(div);
    log.scrollTop = log.scrollHeight;
  }

  fetch("/api/welcome").then(function (r) { return r.json(); }).then(function (body) {
    if (body.message) append("assistant", body.message);
  }).catch(function () {});

  form.addEventListener("submit", function (e) {
    e.preventDefault();
    var text = input.value.trim();
    if (!text) return;
    input.value = "";
    append("user", text);
    messages.push({ role: "user", content: text });

    fetch("/api/chat", {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({ conversation_id: conversationID, messages: messages })
    }).then(function (r) { return r.json(); }).then(function (body) {
      if (body.conversation_id) conversationID = body.conversation_id;
      var reply = body.reply || "Sorry, something went wrong.";
      append("assistant", reply);
      messages.push({ role: "assistant", content: reply });
    }).catch(function () {
      append("assistant", "Sorry, something went wrong.");
    });
  });
</script>
</body>
</html>
`

// landingTemplate is the demo page at the server root: the embed snippet
// plus the live widget itself.
const landingTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} — embedchat</title>
<style>
  body { margin: 0; font-family: system-ui, sans-serif; color: #111; }
  main { max-width: 640px; margin: 0 auto; padding: 48px 24px; }
  h1 { color: {{.AccentColor}}; }
  pre { background: #f6f6f8; padding: 16px; border-radius: 8px; overflow-x: auto; }
</style>
</head>
<body>
<main>
  <h1>{{.Title}}</h1>
  <p>This server hosts an embeddable AI chat widget. Add it to any page with one tag:</p>
  <pre>&lt;script src="https://your-server.example/widget.js" async&gt;&lt;/script&gt;</pre>
  <p>The widget is live on this page — try the button in the corner.</p>
</main>
<script src="/widget.js" async></script>
</body>
</html>
`
