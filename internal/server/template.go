package server

import (
	"fmt"
	"html/template"
	"strings"

	"MacroSentinel/internal/model"
)

var funcs = template.FuncMap{
	"severityClass": func(s model.Severity) string { return strings.ToLower(string(s)) },
	"levelClass":    func(l model.Level) string { return strings.ToLower(string(l)) },
	"num":           func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"threshold": func(ind model.ClassifiedIndicator) string {
		d := ind.Definition
		if d == nil {
			return ""
		}
		if d.Kind == model.KindPercentDrop {
			return fmt.Sprintf("baseline %.2f, drop ≥20%% / ≥30%%", d.Baseline)
		}
		op := "≥"
		if d.Kind == model.KindInverted {
			op = "<"
		}
		return fmt.Sprintf("%s %.2f / %.2f (crisis %.2f)", op, d.Thresholds.Caution, d.Thresholds.Fear, d.Thresholds.Crisis)
	},
}

var page = template.Must(template.New("dashboard").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Macro Risk Dashboard</title>
<style>
body{font-family:sans-serif;margin:2em;background:#f6f7f9}
table{border-collapse:collapse;width:100%;background:#fff}
th,td{padding:.4em .6em;border-bottom:1px solid #ddd;text-align:left}
.normal{color:#1b7f3b}.caution{color:#b36b00}.critical{color:#b00020;font-weight:bold}
.banner{padding:1em;margin-bottom:1em;color:#fff}
.banner.stable{background:#1b7f3b}.banner.caution{background:#b36b00}
.banner.warning{background:#d35400}.banner.defensive{background:#b00020}
.stale{font-style:italic;color:#777}
</style>
</head>
<body>
{{with .State}}
<div class="banner {{levelClass .Level}}">
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
<p>Critical indicators: {{.CriticalCount}} / {{len .Indicators}}</p>
<p>Allocation: {{.Recommendation.Text}} (growth {{.Recommendation.GrowthPct}}% / defensive {{.Recommendation.DefensivePct}}%)</p>
</div>
<table>
<tr><th>Indicator</th><th>Value</th><th>Severity</th><th>Thresholds</th><th>Frequency</th></tr>
{{range .Indicators}}
<tr>
<td title="{{if .Definition}}{{.Definition.Description}}{{end}}">{{.Name}}</td>
<td>{{num .Value}}{{if .Stale}} <span class="stale">(fallback)</span>{{end}}</td>
<td class="{{severityClass .Severity}}">{{.Severity}}</td>
<td>{{threshold .}}</td>
<td>{{if .Definition}}{{.Definition.Frequency}}{{end}}</td>
</tr>
{{end}}
</table>
<p>Generated at {{.GeneratedAt.UTC.Format "2006-01-02 15:04:05 MST"}}</p>
{{end}}
{{if .Debug}}
<h2>Upstream trace</h2>
<table>
<tr><th>Time</th><th>Tag</th><th>Status</th><th>Code</th><th>Latency ms</th><th>Error</th></tr>
{{range .Trace}}
<tr><td>{{.Time.UTC.Format "15:04:05.000"}}</td><td>{{.Tag}}</td><td>{{.HTTPStatus}}</td><td>{{.ErrCode}}</td><td>{{.LatencyMs}}</td><td>{{.Error}}</td></tr>
{{end}}
</table>
{{end}}
</body>
</html>
`))

type pageData struct {
	State *model.DashboardState
	Trace []model.TraceRecord
	Debug bool
}
