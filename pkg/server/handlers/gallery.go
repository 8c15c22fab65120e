package handlers

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/dskvich/ai-gallery/pkg/domain"
	"github.com/dskvich/ai-gallery/pkg/logger"
	"github.com/dskvich/ai-gallery/pkg/render"
	"github.com/samber/lo"
)

const galleryHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>AI Gallery</title>
<style>
body { font-family: sans-serif; max-width: 60rem; margin: 0 auto; padding: 1rem; }
form { display: flex; gap: .5rem; margin-bottom: 1rem; }
input[name=prompt] { flex: 1; padding: .5rem; }
.grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 1rem; }
.card { border: 1px solid #ddd; border-radius: .75rem; height: 12rem; padding: .5rem; overflow: auto; font-size: .85rem; }
.card img { object-fit: contain; width: 100%; height: 100%; }
</style>
</head>
<body>
<h1>AI Gallery</h1>
<form method="post" action="/api/prompts" onsubmit="return submitPrompt(this)">
<input name="prompt" placeholder="Enter prompt..." required>
<select name="outputType"><option value="text">Text</option><option value="image">Image</option></select>
<button type="submit">Generate</button>
</form>
<div class="grid">
{{range .}}
<div class="card" style="background-color: hsl({{.Hue}}, 40%, 97%)">
{{if .Pending}}<em>Generating...</em>
{{else if .ImageDeleted}}Image was deleted
{{else if .ImageURL}}<img src="{{.ImageURL}}">
{{else}}{{.Text}}{{end}}
</div>
{{end}}
</div>
<script>
function sessionId() {
  let id = localStorage.getItem("sessionId");
  if (!id) { id = crypto.randomUUID(); localStorage.setItem("sessionId", id); }
  return id;
}
function submitPrompt(form) {
  fetch("/api/prompts", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify({
      sessionId: sessionId(),
      prompt: form.prompt.value,
      outputType: form.outputType.value,
    }),
  }).then(() => { form.prompt.value = ""; });
  return false;
}
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/api/prompts/live");
ws.onmessage = () => location.reload();
</script>
</body>
</html>`

var galleryTmpl = template.Must(template.New("gallery").Parse(galleryHTML))

type galleryCard struct {
	Hue          int
	Prompt       string
	Pending      bool
	Text         template.HTML
	ImageURL     string
	ImageDeleted bool
}

// Gallery is a server-rendered fallback for clients without the SPA.
func Gallery(prompts listPromptProvider, blobs blobResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		records, err := prompts.ListRecent(ctx, defaultListCount)
		if err != nil {
			slog.ErrorContext(ctx, "listing prompts for gallery", logger.Err(err))
			http.Error(w, "failed to load gallery", http.StatusInternalServerError)
			return
		}

		cards := lo.Map(buildViews(ctx, records, blobs), func(view PromptView, _ int) galleryCard {
			card := galleryCard{Hue: view.Hue, Prompt: view.Prompt}
			switch {
			case view.Result == nil:
				card.Pending = true
			case view.Result.Type == domain.ResultTypeImage && view.Result.Value == nil:
				card.ImageDeleted = true
			case view.Result.Type == domain.ResultTypeImage:
				card.ImageURL = *view.Result.Value
			default:
				card.Text = template.HTML(render.ToHTML(*view.Result.Value))
			}
			return card
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := galleryTmpl.Execute(w, cards); err != nil {
			slog.ErrorContext(ctx, "rendering gallery", logger.Err(err))
		}
	}
}
