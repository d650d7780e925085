package output

import (
	"html/template"
	"io"

	"github.com/phyten/tdfix/internal/engine"
)

// reportTemplate は自己完結な HTML レポート。外部リソースへの参照は持たず、
// セルの値はすべて html/template のエスケープを通る。
var reportTemplate = template.Must(template.New("report").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>tdfix report</title>
<style>
body { font-family: ui-monospace, SFMono-Regular, Menlo, Consolas, monospace; margin: 2rem; color: #1f2328; }
h1 { font-size: 1.2rem; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #d0d7de; padding: 4px 8px; text-align: left; font-size: 0.85rem; }
th { background: #f6f8fa; }
tr.fixed td { background: #ecfdf0; }
.summary { margin: 0.8rem 0; color: #57606a; }
.errors { margin-top: 1.2rem; color: #cf222e; }
</style>
</head>
<body>
<h1>tdfix report</h1>
<p class="summary">{{.Result.Total}} findings / {{.Result.FixedCount}} fixed / {{.Result.FilesSeen}} files scanned in {{.Result.ElapsedMS}} ms</p>
<table id="out">
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr{{if .Fixed}} class="fixed"{{end}}>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
{{if .Result.Errors}}<div class="errors">
<h2>errors</h2>
<ul>{{range .Result.Errors}}<li>{{.File}} ({{.Stage}}): {{.Message}}</li>{{end}}</ul>
</div>{{end}}
</body>
</html>
`))

type reportRow struct {
	Fixed bool
	Cells []string
}

type reportData struct {
	Result  *engine.Result
	Headers []string
	Rows    []reportRow
}

// WriteHTMLReport renders the result as a standalone HTML page.
func WriteHTMLReport(w io.Writer, res *engine.Result, sel FieldSelection) error {
	data := reportData{
		Result:  res,
		Headers: Headers(sel.Fields),
		Rows:    make([]reportRow, 0, len(res.Items)),
	}
	for _, it := range res.Items {
		data.Rows = append(data.Rows, reportRow{Fixed: it.Fixed, Cells: RowValues(it, sel.Fields)})
	}
	return reportTemplate.Execute(w, data)
}
