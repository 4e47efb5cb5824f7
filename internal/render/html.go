package render

import (
	"bytes"
	"fmt"
	"html/template"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("frame").Funcs(template.FuncMap{
		"color":       clusterColor,
		"lineY":       lineY,
		"edgeWidth":   edgeWidth,
		"legendColor": legendColor,
	}).Parse(htmlTemplate))
}

// palette colors cluster groups; indices wrap around.
var palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

// clusterColor maps a cluster index to a fill color. Unclustered circles and
// focal circles use fixed colors.
func clusterColor(c Circle) string {
	if c.Focal {
		return "#e15759"
	}
	if c.Cluster < 0 {
		return "#4e79a7"
	}
	return palette[c.Cluster%len(palette)]
}

// legendColor maps a cluster index to its swatch color.
func legendColor(cluster int) string {
	if cluster < 0 {
		return "#4e79a7"
	}
	return palette[cluster%len(palette)]
}

// edgeWidth scales stroke width with edge weight, floored at a hairline.
func edgeWidth(weight float64) float64 {
	w := 0.5 + weight*3
	if w > 4 {
		w = 4
	}
	return w
}

// lineY positions wrapped label line i vertically centered on the circle.
func lineY(c Circle, i int) float64 {
	const lineHeight = 13.0
	total := float64(len(c.Lines)) * lineHeight
	return c.Y - total/2 + float64(i)*lineHeight + lineHeight*0.75
}

// GenerateHTML renders a self-contained HTML page with the frame drawn as
// inline SVG. No external scripts or assets are referenced.
func GenerateHTML(frame *Frame, title string) (string, error) {
	if frame == nil {
		return "", fmt.Errorf("frame cannot be nil")
	}
	if len(frame.Circles) == 0 {
		return generateEmptyHTML(title), nil
	}

	data := struct {
		Title string
		Frame *Frame
	}{Title: title, Frame: frame}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering frame template: %w", err)
	}
	return buf.String(), nil
}

// generateEmptyHTML renders the no-data placeholder page.
func generateEmptyHTML(title string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>%s</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4em; color: #666;">
<p>No data to display.</p>
</body>
</html>
`, template.HTMLEscapeString(title))
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: sans-serif; margin: 0; background: #fafafa; }
  h1 { font-size: 16px; margin: 12px 16px; color: #333; }
  svg { display: block; margin: 0 auto; background: #fff; }
  .edge { stroke: #999; stroke-opacity: 0.5; }
  .label { font-size: 11px; text-anchor: middle; fill: #222; pointer-events: none; }
  .legend { font-size: 12px; margin: 8px 16px; color: #444; }
  .legend span { display: inline-block; margin-right: 12px; }
  .swatch { display: inline-block; width: 10px; height: 10px; margin-right: 4px; border-radius: 2px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<svg width="{{.Frame.Width}}" height="{{.Frame.Height}}" viewBox="0 0 {{.Frame.Width}} {{.Frame.Height}}">
{{- range .Frame.Segments}}
  <line class="edge" x1="{{.X1}}" y1="{{.Y1}}" x2="{{.X2}}" y2="{{.Y2}}" stroke-width="{{printf "%.1f" (edgeWidth .Weight)}}"/>
{{- end}}
{{- range .Frame.Circles}}
  <circle cx="{{.X}}" cy="{{.Y}}" r="{{.Radius}}" fill="{{color .}}" fill-opacity="0.85"/>
{{- end}}
{{- range $c := .Frame.Circles}}
{{- range $i, $line := $c.Lines}}
  <text class="label" x="{{$c.X}}" y="{{lineY $c $i}}">{{$line}}</text>
{{- end}}
{{- end}}
</svg>
{{- if .Frame.Legend}}
<div class="legend">
{{- range .Frame.Legend}}
  <span><i class="swatch" style="background: {{legendColor .Cluster}}"></i>Group {{.Cluster}} ({{.Count}})</span>
{{- end}}
</div>
{{- end}}
</body>
</html>
`
