package report

import (
	"bytes"
	"html/template"
	"io"
	"path/filepath"
	"time"

	"github.com/mhollis/sitereport/internal/check"
	"github.com/mhollis/sitereport/internal/errors"
	"github.com/mhollis/sitereport/internal/paths"
	"github.com/mhollis/sitereport/pkg/fileutil"
)

// Renderer serializes a check report into one self-contained HTML
// document. All free-text fields pass through html/template's contextual
// escaping; remote data never renders as markup.
type Renderer struct {
	styles StyleMap
	tmpl   *template.Template
}

// NewRenderer creates a renderer with the given style configuration.
func NewRenderer(styles StyleMap) (*Renderer, error) {
	if err := styles.Validate(); err != nil {
		return nil, err
	}

	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return nil, errors.Wrap(err, "parsing report template")
	}

	return &Renderer{
		styles: styles,
		tmpl:   tmpl,
	}, nil
}

// Render writes the report as HTML. It fails, without writing, when any
// result carries a status missing from the style map.
func (r *Renderer) Render(w io.Writer, rep *check.Report) error {
	view, err := r.buildView(rep)
	if err != nil {
		return err
	}
	return errors.Wrap(r.tmpl.Execute(w, view), "executing report template")
}

// WriteFile renders the report and writes it atomically to path,
// overwriting any previous run's document.
func (r *Renderer) WriteFile(path string, rep *check.Report) error {
	var buf bytes.Buffer
	if err := r.Render(&buf, rep); err != nil {
		return err
	}

	if err := paths.EnsureDir(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return fileutil.AtomicWriteFile(path, buf.Bytes(), paths.DefaultFilePerm)
}

type styleView struct {
	Class string
	Color template.CSS
}

type rowView struct {
	Name  string
	Class string
	Label string
	Note  string
	Err   string
}

type sectionView struct {
	Name string
	Rows []rowView
}

type summaryCell struct {
	Label string
	Count int
}

type reportView struct {
	Target      string
	ID          string
	GeneratedAt string
	Styles      []styleView
	Sections    []sectionView
	Summary     []summaryCell
	Rows        int
}

// buildView resolves every row's style up front so an unmapped status
// aborts the render before a single byte is written.
func (r *Renderer) buildView(rep *check.Report) (*reportView, error) {
	view := &reportView{
		Target:      rep.Target,
		ID:          rep.ID,
		GeneratedAt: rep.GeneratedAt.Format(time.RFC3339),
		Rows:        rep.Rows(),
	}

	for _, status := range statusOrder {
		style, ok := r.styles[status]
		if !ok {
			continue
		}
		// Colors were validated against cssColor in NewRenderer.
		view.Styles = append(view.Styles, styleView{
			Class: "st-" + status.String(),
			Color: template.CSS(style.Color),
		})
	}

	for _, section := range rep.Sections {
		sv := sectionView{Name: section.Name}
		for _, result := range section.Results {
			style, err := r.styles.lookup(result.Status)
			if err != nil {
				return nil, errors.Wrapf(err, "rendering %s/%s", result.Section, result.Name)
			}
			sv.Rows = append(sv.Rows, rowView{
				Name:  result.Name,
				Class: "st-" + result.Status.String(),
				Label: style.Label,
				Note:  result.Note,
				Err:   result.Err,
			})
		}
		view.Sections = append(view.Sections, sv)
	}

	for _, status := range statusOrder {
		style, ok := r.styles[status]
		if !ok {
			continue
		}
		view.Summary = append(view.Summary, summaryCell{
			Label: style.Label,
			Count: summaryCount(rep.Summary, status),
		})
	}

	return view, nil
}

func summaryCount(s check.Summary, status check.Status) int {
	switch status {
	case check.StatusHealthy:
		return s.Healthy
	case check.StatusWarning:
		return s.Warning
	case check.StatusCritical:
		return s.Critical
	case check.StatusManual:
		return s.Manual
	case check.StatusUnknown:
		return s.Unknown
	default:
		return 0
	}
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Site health report - {{.Target}}</title>
<style>
body { font-family: "Segoe UI", Helvetica, Arial, sans-serif; margin: 2em; color: #212121; }
h1 { font-size: 1.4em; }
h2 { font-size: 1.1em; margin-top: 1.6em; border-bottom: 1px solid #e0e0e0; padding-bottom: 0.2em; }
p.meta { color: #616161; font-size: 0.85em; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 0.4em 0.8em; border-bottom: 1px solid #eeeeee; font-size: 0.9em; }
td.badge span { color: #ffffff; padding: 0.15em 0.6em; border-radius: 3px; font-size: 0.85em; white-space: nowrap; }
td.err { color: #c62828; font-family: monospace; font-size: 0.8em; }
tfoot td { color: #616161; }
{{range .Styles}}.{{.Class}} { background: {{.Color}}; }
{{end}}</style>
</head>
<body>
<h1>Site health report</h1>
<p class="meta">Target {{.Target}} &middot; generated {{.GeneratedAt}} &middot; run {{.ID}}</p>
{{range .Sections}}<h2>{{.Name}}</h2>
<table>
<tbody>
{{range .Rows}}<tr>
<td>{{.Name}}</td>
<td class="badge"><span class="{{.Class}}">{{.Label}}</span></td>
<td>{{.Note}}</td>
<td class="err">{{.Err}}</td>
</tr>
{{end}}</tbody>
</table>
{{end}}<h2>Summary</h2>
<table>
<tbody>
<tr>{{range .Summary}}<td>{{.Label}}: {{.Count}}</td>{{end}}<td>{{.Rows}} rows</td></tr>
</tbody>
</table>
</body>
</html>
`

// RenderFatal writes the minimal error document emitted when the
// management connection itself cannot be established and no checks ran.
func RenderFatal(w io.Writer, target string, cause error) error {
	view := struct {
		Target      string
		GeneratedAt string
		Cause       string
	}{
		Target:      target,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Cause:       cause.Error(),
	}

	tmpl, err := template.New("fatal").Parse(fatalTemplate)
	if err != nil {
		return errors.Wrap(err, "parsing fatal template")
	}
	return errors.Wrap(tmpl.Execute(w, view), "executing fatal template")
}

// WriteFatalFile writes the fatal-error document atomically to path.
func WriteFatalFile(path, target string, cause error) error {
	var buf bytes.Buffer
	if err := RenderFatal(&buf, target, cause); err != nil {
		return err
	}

	if err := paths.EnsureDir(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return fileutil.AtomicWriteFile(path, buf.Bytes(), paths.DefaultFilePerm)
}

const fatalTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Site health report - {{.Target}}</title>
<style>
body { font-family: "Segoe UI", Helvetica, Arial, sans-serif; margin: 2em; color: #212121; }
div.fatal { border: 1px solid #c62828; background: #ffebee; padding: 1em; }
</style>
</head>
<body>
<h1>Site health report</h1>
<p>Target {{.Target}} &middot; {{.GeneratedAt}}</p>
<div class="fatal">
<strong>No report could be produced.</strong>
<p>The management connection could not be established: {{.Cause}}</p>
</div>
</body>
</html>
`
