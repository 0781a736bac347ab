package httpapi

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/haukened/block-visibility/internal/blocks/services/visibility"
)

var settingsPageTemplate = template.Must(template.New("settings").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Block Visibility</title>
</head>
<body>
<div class="wrap">
	<h2>Block Visibility Settings</h2>
	{{- if .Updated}}
	<div class="notice notice-success"><p>Settings saved.</p></div>
	{{- end}}
	<p>Select the blocks to hide from the post editor. If a block is hidden that is already in use, it will still be visible on the frontend and backend.</p>
	<form action="{{.Action}}" method="post">
		<ul class="registered-blocks" style="display: flex; flex-direction: row; flex-wrap: wrap;">
		{{- range .Items}}
			<li style="width:30%;">
				<label>
					<input type="checkbox" name="{{$.Field}}" value="{{.Block.Name}}"{{if .Hidden}} checked{{end}}{{if .Locked}} disabled{{end}}>
					{{.Block.Label}}{{with .Block.Category}} <span class="block-category">({{.}})</span>{{end}}
				</label>
			</li>
		{{- end}}
		</ul>
		<p class="submit"><input type="submit" class="button button-primary" value="Save Changes"></p>
	</form>
</div>
</body>
</html>
`))

type settingsPageData struct {
	Action  string
	Field   string
	Updated bool
	Items   []visibility.ChecklistItem
}

// settingsPage renders the block checklist. Hidden blocks are pre-checked;
// fixed exclusions are checked and disabled.
func (rr *Routes) settingsPage(w http.ResponseWriter, r *http.Request) {
	data := settingsPageData{
		Action:  OptionsPath,
		Field:   rr.option + "[]",
		Updated: r.URL.Query().Get("settings-updated") == "true",
		Items:   rr.service.Checklist(),
	}

	var buf bytes.Buffer
	if err := settingsPageTemplate.Execute(&buf, data); err != nil {
		rr.logger.Error(map[string]any{"error": err.Error()}, "Failed to render settings page")
		http.Error(w, "Failed to render settings page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
