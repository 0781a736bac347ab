package httpapi

import "html"

// PrependSettingsLink returns links with a "Settings" anchor pointing at
// settingsURL placed first. The input slice is not modified.
func PrependSettingsLink(links []string, settingsURL string) []string {
	link := `<a href="` + html.EscapeString(settingsURL) + `">Settings</a>`
	out := make([]string, 0, len(links)+1)
	out = append(out, link)
	return append(out, links...)
}
