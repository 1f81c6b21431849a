// Package render draws chart specs as an interactive HTML page using go-echarts.
//
// The renderer only maps encodings onto echarts options. The one computation it performs
// is boxing raw values of a boxplot spec that carries no pre-aggregated summary.
package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pable/go-hero-metrics/internal/aggregator"
	"github.com/pable/go-hero-metrics/internal/chartspec"
)

// PageTitle is the HTML title of a rendered page.
const PageTitle = "Hero Realms Metrics"

// Page renders every non-empty spec onto one HTML page written to w.
func Page(w io.Writer, specs ...chartspec.Spec) error {
	cs, err := Charts(specs...)
	if err != nil {
		return err
	}
	page := components.NewPage()
	page.PageTitle = PageTitle
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(cs...)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// Charts converts specs into echarts charts. Empty specs are skipped; faceted specs
// yield one chart per panel.
func Charts(specs ...chartspec.Spec) ([]components.Charter, error) {
	var out []components.Charter
	for _, s := range specs {
		if s.Empty() {
			continue
		}
		for i, p := range panels(s) {
			c, err := chart(s, p, fmt.Sprintf("%s_%d", chartID(s.Name), i))
			if err != nil {
				return nil, fmt.Errorf("chart %s: %w", s.Name, err)
			}
			out = append(out, c)
		}
	}
	return out, nil
}

func chart(s chartspec.Spec, p panel, id string) (components.Charter, error) {
	switch s.Mark {
	case chartspec.MarkCircle:
		return scatter(s, p, id), nil
	case chartspec.MarkBar:
		return bar(s, p, id), nil
	case chartspec.MarkBoxPlot:
		return boxPlot(s, p, id), nil
	case chartspec.MarkLine:
		return line(s, p, id), nil
	default:
		return nil, fmt.Errorf("unsupported mark %q", s.Mark)
	}
}

func globals(s chartspec.Spec, p panel, id string) []charts.GlobalOpts {
	theme := chartspec.Theme()
	width, height := theme.Width, theme.Height
	if s.Width > 0 {
		width = max(s.Width*2, 320)
	}
	if s.Height > 0 {
		height = s.Height
	}
	showLegend := s.Color != nil && (s.Color.Legend == nil || *s.Color.Legend)
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:           strconv.Itoa(width) + "px",
			Height:          strconv.Itoa(height) + "px",
			BackgroundColor: theme.Background,
			ChartID:         id,
		}),
		charts.WithTitleOpts(opts.Title{Title: p.title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(showLegend), Top: "bottom"}),
		charts.WithColorsOpts(opts.Colors(theme.Category)),
	}
}

// scatter draws a bubble per datum, one series per color value.
func scatter(s chartspec.Spec, p panel, id string) *charts.Scatter {
	c := charts.NewScatter()
	c.SetGlobalOptions(globals(s, p, id)...)
	c.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: s.X.Title}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Name: s.Y.Title, Data: categories(p.data, s.Y.Field)}),
	)

	for _, g := range groupBy(p.data, s.Color) {
		pts := make([]opts.ScatterData, 0, len(g.data))
		for _, d := range g.data {
			pt := opts.ScatterData{Value: []any{d[s.X.Field], label(d[s.Y.Field])}, SymbolSize: 10}
			if s.Size != nil {
				pt.SymbolSize = bubbleSize(num(d[s.Size.Field]))
			}
			pts = append(pts, pt)
		}
		c.AddSeries(g.name, pts)
	}
	return c
}

// bar draws one stacked series per color value. A normalized stack is drawn in percent.
func bar(s chartspec.Spec, p panel, id string) *charts.Bar {
	c := charts.NewBar()
	c.SetGlobalOptions(globals(s, p, id)...)
	yName := s.Y.Title
	if s.Y.Stack == chartspec.StackNormalize {
		yName += " (%)"
	}
	c.SetGlobalOptions(charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: yName}))

	xs := categories(p.data, s.X.Field)
	totals := make(map[string]float64, len(xs))
	for _, d := range p.data {
		totals[label(d[s.X.Field])] += num(d[s.Y.Field])
	}

	c.SetXAxis(xs)
	for i, g := range groupBy(p.data, s.Color) {
		byX := make(map[string]float64, len(g.data))
		for _, d := range g.data {
			byX[label(d[s.X.Field])] += num(d[s.Y.Field])
		}
		vals := make([]opts.BarData, len(xs))
		for j, x := range xs {
			v := byX[x]
			if s.Y.Stack == chartspec.StackNormalize && totals[x] > 0 {
				v = round(100 * v / totals[x])
			}
			vals[j] = opts.BarData{Value: v}
		}
		seriesOpts := []charts.SeriesOpts{charts.WithBarChartOpts(opts.BarChart{Stack: "stack"})}
		if s.Color != nil && i < len(s.Color.Range) {
			seriesOpts = append(seriesOpts, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color.Range[i]}))
		}
		c.AddSeries(g.name, vals, seriesOpts...)
	}
	return c
}

// boxPlot draws one box per category of the nominal axis.
func boxPlot(s chartspec.Spec, p panel, id string) *charts.BoxPlot {
	c := charts.NewBoxPlot()
	c.SetGlobalOptions(globals(s, p, id)...)

	catEnc, valEnc := s.Y, s.X
	if s.Y.Type == chartspec.Quantitative {
		catEnc, valEnc = s.X, s.Y
	}
	c.SetGlobalOptions(charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: valEnc.Title}))

	cats := categories(p.data, catEnc.Field)
	boxes := make([]opts.BoxPlotData, 0, len(cats))
	if len(s.BoxFields) == 5 {
		for _, d := range p.data {
			five := make([]float64, 5)
			for i, f := range s.BoxFields {
				five[i] = num(d[f])
			}
			boxes = append(boxes, opts.BoxPlotData{Name: label(d[catEnc.Field]), Value: five})
		}
	} else {
		values := make(map[string][]float64, len(cats))
		for _, d := range p.data {
			k := label(d[catEnc.Field])
			values[k] = append(values[k], num(d[valEnc.Field]))
		}
		for _, k := range cats {
			five := aggregator.FiveNumber(values[k])
			boxes = append(boxes, opts.BoxPlotData{Name: k, Value: five[:]})
		}
	}

	c.SetXAxis(cats).AddSeries(valEnc.Title, boxes)
	return c
}

// line draws y against the ordinal x axis of one panel.
func line(s chartspec.Spec, p panel, id string) *charts.Line {
	c := charts.NewLine()
	c.SetGlobalOptions(globals(s, p, id)...)
	c.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{Name: s.X.Title}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: s.Y.Title}),
	)

	xs := make([]string, 0, len(p.data))
	ys := make([]opts.LineData, 0, len(p.data))
	for _, d := range p.data {
		xs = append(xs, label(d[s.X.Field]))
		ys = append(ys, opts.LineData{Value: round(num(d[s.Y.Field]))})
	}
	c.SetXAxis(xs).AddSeries(s.Y.Title, ys, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))
	return c
}

// ---- data helpers ----

type panel struct {
	title string
	data  []chartspec.Datum
}

// panels splits the chart data by its facet fields in first-seen order.
func panels(s chartspec.Spec) []panel {
	if s.Facet == nil || (s.Facet.Column == nil && s.Facet.Row == nil) {
		return []panel{{title: s.Title, data: s.Data}}
	}

	var (
		out   []panel
		index = make(map[string]int)
	)
	for _, d := range s.Data {
		var parts []string
		for _, enc := range []*chartspec.Encoding{s.Facet.Column, s.Facet.Row} {
			if enc != nil {
				parts = append(parts, fmt.Sprintf("%s: %s", enc.Title, label(d[enc.Field])))
			}
		}
		key := strings.Join(parts, ", ")
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, panel{title: s.Title + " | " + key})
		}
		out[i].data = append(out[i].data, d)
	}
	return out
}

type group struct {
	name string
	data []chartspec.Datum
}

// groupBy splits data by the color field, following the encoding's domain when set.
func groupBy(data []chartspec.Datum, enc *chartspec.Encoding) []group {
	if enc == nil {
		return []group{{name: "", data: data}}
	}

	var order []string
	if len(enc.Domain) > 0 {
		for _, v := range enc.Domain {
			order = append(order, seriesName(enc, v))
		}
	}
	buckets := make(map[string][]chartspec.Datum)
	for _, d := range data {
		name := seriesName(enc, d[enc.Field])
		if _, ok := buckets[name]; !ok && len(enc.Domain) == 0 {
			order = append(order, name)
		}
		buckets[name] = append(buckets[name], d)
	}

	out := make([]group, 0, len(order))
	for _, name := range order {
		out = append(out, group{name: name, data: buckets[name]})
	}
	return out
}

func seriesName(enc *chartspec.Encoding, v any) string {
	if b, ok := v.(bool); ok {
		if b {
			return enc.Title + ": Yes"
		}
		return enc.Title + ": No"
	}
	return label(v)
}

// categories returns the distinct labels of field in first-seen order.
func categories(data []chartspec.Datum, field string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range data {
		l := label(d[field])
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

func label(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func num(v any) float64 {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case float64:
		return x
	default:
		return 0
	}
}

func round(f float64) float64 {
	return math.Round(f*100) / 100
}

// bubbleSize maps a 0-100 percentage onto a symbol diameter in pixels.
func bubbleSize(pct float64) int {
	return 6 + int(math.Round(math.Max(0, math.Min(pct, 100))*0.3))
}

func chartID(name string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, name)
}
