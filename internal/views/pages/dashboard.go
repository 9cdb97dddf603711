package pages

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

var dashboardTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"dash":    DefaultDash,
	"percent": PercentLabel,
	"slot":    SlotLabel,
	"swatch":  SwatchStyle,
}).Parse(dashboardHTML))

// Dashboard renders the formula notebook with its summary and import form.
func Dashboard(snapshot LedgerSnapshot) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return dashboardTemplate.Execute(w, snapshot)
	})
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Color Ledger</title>
</head>
<body>
<header>
  <h1>Color Ledger</h1>
  <p>Import book <strong data-book>{{ .Book }}</strong></p>
</header>
{{ with .Flash }}<div class="flash" role="status" data-flash>{{ . }}</div>{{ end }}
<section data-summary>
  <dl>
    <dt>Formulas</dt><dd data-total>{{ .Summary.TotalFormulas }}</dd>
    <dt>Books</dt><dd>{{ .Summary.DistinctBooks }}</dd>
    <dt>Latest formula</dt><dd>{{ dash .Summary.LatestDate }}</dd>
  </dl>
  {{ with .Summary.TopIngredients }}
  <ol data-top-ingredients>
    {{ range . }}<li>{{ .MotherCode }} {{ .Name }} ({{ .Count }})</li>{{ end }}
  </ol>
  {{ end }}
</section>
<section>
  <form method="post" action="/import" enctype="multipart/form-data">
    <input type="file" name="excelFile" accept=".xlsx" required>
    <button type="submit">Import</button>
  </form>
  <a href="/api/template">Download template</a>
</section>
<main>
{{ range .Pages }}
  <table data-page="{{ .Number }}">
    <caption>Page {{ .Number }}</caption>
    <tbody>
    {{ range .Formulas }}
      <tr data-formula-id="{{ .ID }}">
        <td>{{ slot .Page .Row }}</td>
        <td><span class="swatch" style="{{ swatch .SwatchColor }}"></span></td>
        <td>{{ dash .ResultCode }}</td>
        <td>{{ .YarnType }} {{ .YarnModel }}</td>
        <td>{{ dash .Date }}</td>
        <td>{{ .Book }}</td>
        <td>
          <ul>{{ range .Ingredients }}<li>{{ .MotherCode }} {{ .Name }} {{ percent .Percentage }}</li>{{ end }}</ul>
        </td>
      </tr>
    {{ end }}
    </tbody>
  </table>
{{ else }}
  <p data-empty>No formulas yet. Import a spreadsheet to start the notebook.</p>
{{ end }}
</main>
<script id="ledger-seeds" type="application/json">{{ .SeedsJSON }}</script>
</body>
</html>
`
