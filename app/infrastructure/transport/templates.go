package transport

import (
	"html/template"
	"time"

	"github.com/mark47B/campground-availability/app/domain/entity"
)

const displayDateLayout = "1/2/2006"

type indexPage struct {
	CampgroundID string
	Year         string
	Months       string
	Searched     bool
	Error        string
	Report       *entity.AvailabilityReport
}

var indexTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"displayDate": func(t time.Time) string { return t.Format(displayDateLayout) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Campground availability</title>
</head>
<body>
<h1>Campground availability</h1>
<form method="get" action="/">
  <label>Campground <input name="campground" value="{{.CampgroundID}}"></label>
  <label>Year <input name="year" value="{{.Year}}" size="4"></label>
  <label>Months <input name="months" value="{{.Months}}" placeholder="7,8,9"></label>
  <button type="submit">Search</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{if .Searched}}{{with .Report}}
<h2>{{if .Campground}}{{.Campground.Name}}{{else}}{{.Query.CampgroundID}}{{end}}</h2>
{{if .Sites}}
<p>
  <a href="/api/availability/export?format=ics&campground={{.Query.CampgroundID}}&year={{.Query.Year}}{{range .Query.Months}}&month={{printf "%d" .}}{{end}}">ICS</a>
  <a href="/api/availability/export?format=csv&campground={{.Query.CampgroundID}}&year={{.Query.Year}}{{range .Query.Months}}&month={{printf "%d" .}}{{end}}">CSV</a>
</p>
{{range .Sites}}
<h3>Site {{.Site}}</h3>
<ul>
{{range .Dates}}  <li>{{displayDate .}}</li>
{{end}}</ul>
{{end}}
{{else}}
<p>No availability</p>
{{end}}
{{end}}{{end}}
</body>
</html>
`))
