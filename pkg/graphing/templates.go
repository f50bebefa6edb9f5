package graphing

import (
	"html/template"
	"time"
)

var templates = template.Must(template.New("").Funcs(templateFuncs).Parse(`
{{define "styles"}}
<style>
* {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif;
}
body {
    max-width: 1400px;
    margin: 0 auto;
    padding: 20px;
}
.report-header {
    border-bottom: 2px solid #333;
    padding-bottom: 10px;
    margin-bottom: 15px;
}
.report-header h1 {
    margin: 0;
    font-size: 18px;
}
.report-meta {
    font-size: 11px;
    color: #666;
    font-family: monospace;
}
.info-table {
    border-collapse: collapse;
    font-size: 12px;
    margin-top: 10px;
}
.info-table td {
    padding: 3px 8px;
    border-bottom: 1px solid #eee;
}
.info-table td:first-child {
    color: #666;
}
.container {
    display: inline-block !important;
    margin: 0 10px 10px 0 !important;
}
</style>
{{end}}

{{define "scripts"}}
<script>
window.addEventListener('resize', function() {
    document.querySelectorAll('[_echarts_instance_]').forEach(function(el) {
        var c = echarts.getInstanceByDom(el);
        if (c) c.resize();
    });
});
</script>
{{end}}

{{define "header"}}
<div class="report-header">
    <h1>{{.Title}}</h1>
    <div class="report-meta">Sampled {{fmtTime .SampledAt}}{{if .InstanceID}} &middot; instance {{.InstanceID}}{{end}}</div>
    <table class="info-table">
        <tr><td>System CPU</td><td>{{printf "%.1f" .System.CPUPercent}}%</td></tr>
        <tr><td>System memory</td><td>{{printf "%.1f" .System.MemoryPercent}}%</td></tr>
        <tr><td>Processes</td><td>{{.System.TotalProcesses}}</td></tr>
        {{with .Host}}
        <tr><td>Host</td><td>{{.Hostname}} ({{.OS}}/{{.Arch}})</td></tr>
        {{if .Kernel}}<tr><td>Kernel</td><td>{{.Kernel}} {{.Machine}}</td></tr>{{end}}
        <tr><td>Logical CPUs</td><td>{{.LogicalCPUs}}</td></tr>
        {{end}}
    </table>
</div>
{{end}}
`))

var templateFuncs = template.FuncMap{
	"fmtTime": func(t time.Time) string {
		if t.IsZero() {
			return "unknown"
		}
		return t.Format("2006-01-02 15:04:05 MST")
	},
}
