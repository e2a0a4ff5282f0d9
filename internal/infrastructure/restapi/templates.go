package restapi

import (
	"html/template"
	"net/url"
	"strconv"
	"time"
)

const dashboardTemplateName = "dashboard.html"

var dashboardTemplate = template.Must(template.New(dashboardTemplateName).Funcs(template.FuncMap{
	"pageURL": func(page int, query string) string {
		v := url.Values{}
		v.Set("page", strconv.Itoa(page))
		if query != "" {
			v.Set("q", query)
		}
		return "/?" + v.Encode()
	},
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return t.UTC().Format("2006-01-02 15:04:05 MST")
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Balances</title>
<style>
tr.hidden { display: none; }
.page-item { display: inline; margin-right: 4px; }
.page-item.active a { font-weight: bold; }
</style>
</head>
<body>
<form method="get" action="/">
  <input type="text" id="search-bar" name="q" value="{{.View.Query}}" placeholder="Search asset">
  <input type="hidden" name="page" value="{{.View.Page}}">
</form>
<table id="balances-table">
  <thead><tr><th>Asset</th><th>Free</th><th>Locked</th></tr></thead>
  <tbody>
  {{- range .View.Rows}}
    <tr{{if not .Visible}} class="hidden"{{end}}><td>{{.Asset}}</td><td>{{.Free}}</td><td>{{.Locked}}</td></tr>
  {{- end}}
  </tbody>
</table>
<ul id="pagination">
{{- $q := .View.Query}}
{{- range .View.Controls}}
  <li class="page-item{{if .Active}} active{{end}}"><a class="page-link" href="{{pageURL .Page $q}}">{{.Page}}</a></li>
{{- end}}
</ul>
<p>Last refresh: {{formatTime .LastSuccess}}</p>
</body>
</html>
`))
