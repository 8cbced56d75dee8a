package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/prisonproc/procurement/pkg/application/dto"
	"github.com/prisonproc/procurement/pkg/domain/entities"
)

const (
	actualColor   = "#3b82f6"
	forecastColor = "#f59e0b"
	minimumColor  = "#ef4444"
)

// StockChart renders the balance series of one article as an SVG line
// chart: actual balances solid, the projection dashed and the minimum
// stock as a reference line
type StockChart struct {
	Width        int
	Height       int
	MarginLeft   int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	StartTime    time.Time
	EndTime      time.Time
	MaxValue     entities.Quantity
}

// NewStockChart sizes a chart for the timeline's series
func NewStockChart(timeline *dto.ArticleTimeline) *StockChart {
	chart := &StockChart{
		Width:        900,
		Height:       320,
		MarginLeft:   60,
		MarginTop:    50,
		MarginRight:  30,
		MarginBottom: 50,
		MaxValue:     timeline.Stock.MinStock,
	}

	if len(timeline.Series) == 0 {
		return chart
	}

	chart.StartTime = timeline.Series[0].Date
	chart.EndTime = timeline.Series[len(timeline.Series)-1].Date
	for _, p := range timeline.Series {
		if p.Actual != nil && *p.Actual > chart.MaxValue {
			chart.MaxValue = *p.Actual
		}
		if p.Forecast != nil && *p.Forecast > chart.MaxValue {
			chart.MaxValue = *p.Forecast
		}
	}
	// headroom above the highest point
	chart.MaxValue += chart.MaxValue/10 + 1

	return chart
}

// GenerateSVG creates the SVG document of the chart
func (sc *StockChart) GenerateSVG(timeline *dto.ArticleTimeline) string {
	if len(timeline.Series) == 0 {
		return sc.generateEmptyChart()
	}

	var svg strings.Builder

	svg.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, sc.Width, sc.Height))
	svg.WriteString(`<defs><style>`)
	svg.WriteString(`.axis-label { font-family: Arial, sans-serif; font-size: 10px; fill: #666; }`)
	svg.WriteString(`.title { font-family: Arial, sans-serif; font-size: 14px; font-weight: bold; fill: #333; }`)
	svg.WriteString(`.grid-line { stroke: #e0e0e0; stroke-width: 1; stroke-dasharray: 3 3; }`)
	svg.WriteString(`</style></defs>`)
	svg.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>`, sc.Width, sc.Height))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="25" class="title">%s %s (%s)</text>`,
		sc.MarginLeft, escape(timeline.Stock.ArticleCode), escape(timeline.Stock.ArticleName), escape(timeline.Stock.WarehouseID)))

	sc.drawGrid(&svg)
	sc.drawTimeAxis(&svg)
	sc.drawMinimum(&svg, timeline.Stock.MinStock)

	var actual, projected []string
	for _, p := range timeline.Series {
		x := sc.x(p.Date)
		if p.Actual != nil {
			actual = append(actual, fmt.Sprintf("%d,%d", x, sc.y(*p.Actual)))
		}
		if p.Forecast != nil {
			projected = append(projected, fmt.Sprintf("%d,%d", x, sc.y(*p.Forecast)))
		}
	}

	if len(actual) > 0 {
		svg.WriteString(fmt.Sprintf(`<polyline points="%s" fill="none" stroke="%s" stroke-width="2"/>`,
			strings.Join(actual, " "), actualColor))
	}
	if len(projected) > 1 {
		svg.WriteString(fmt.Sprintf(`<polyline points="%s" fill="none" stroke="%s" stroke-width="2" stroke-dasharray="8 4"/>`,
			strings.Join(projected, " "), forecastColor))
	}

	sc.drawLegend(&svg)
	svg.WriteString(`</svg>`)
	return svg.String()
}

func (sc *StockChart) plotWidth() int {
	return sc.Width - sc.MarginLeft - sc.MarginRight
}

func (sc *StockChart) plotHeight() int {
	return sc.Height - sc.MarginTop - sc.MarginBottom
}

func (sc *StockChart) x(t time.Time) int {
	span := sc.EndTime.Sub(sc.StartTime)
	if span <= 0 {
		return sc.MarginLeft
	}
	return sc.MarginLeft + int(float64(sc.plotWidth())*float64(t.Sub(sc.StartTime))/float64(span))
}

func (sc *StockChart) y(q entities.Quantity) int {
	if sc.MaxValue <= 0 {
		return sc.MarginTop + sc.plotHeight()
	}
	return sc.MarginTop + sc.plotHeight() - int(float64(sc.plotHeight())*float64(q)/float64(sc.MaxValue))
}

// drawGrid draws five horizontal grid lines labelled with balances
func (sc *StockChart) drawGrid(svg *strings.Builder) {
	for i := 0; i <= 4; i++ {
		value := sc.MaxValue * entities.Quantity(i) / 4
		y := sc.y(value)
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
			sc.MarginLeft, y, sc.Width-sc.MarginRight, y))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="axis-label" text-anchor="end">%d</text>`,
			sc.MarginLeft-6, y+3, value))
	}
}

// drawTimeAxis labels every day, or every week for long series
func (sc *StockChart) drawTimeAxis(svg *strings.Builder) {
	days := int(sc.EndTime.Sub(sc.StartTime).Hours()/24) + 1
	step := 1
	if days > 21 {
		step = 7
	}
	baseline := sc.Height - sc.MarginBottom
	for d := 0; d < days; d += step {
		t := sc.StartTime.AddDate(0, 0, d)
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="axis-label" text-anchor="middle">%s</text>`,
			sc.x(t), baseline+16, t.Format("02/01")))
	}
}

func (sc *StockChart) drawMinimum(svg *strings.Builder, minStock entities.Quantity) {
	if minStock <= 0 {
		return
	}
	y := sc.y(minStock)
	svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="2" stroke-dasharray="5 5"/>`,
		sc.MarginLeft, y, sc.Width-sc.MarginRight, y, minimumColor))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="axis-label" fill="%s" text-anchor="end">Min: %d</text>`,
		sc.Width-sc.MarginRight, y-4, minimumColor, minStock))
}

func (sc *StockChart) drawLegend(svg *strings.Builder) {
	y := sc.Height - 12
	items := []struct {
		label, color, dash string
	}{
		{"Stock", actualColor, ""},
		{"Forecast", forecastColor, "8 4"},
		{"Minimum", minimumColor, "5 5"},
	}
	for i, item := range items {
		x := sc.MarginLeft + i*120
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="2" stroke-dasharray="%s"/>`,
			x, y-4, x+24, y-4, item.color, item.dash))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="axis-label">%s</text>`, x+30, y, item.label))
	}
}

func (sc *StockChart) generateEmptyChart() string {
	return fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`+
		`<rect width="%d" height="%d" fill="white"/>`+
		`<text x="%d" y="%d" text-anchor="middle" font-family="Arial, sans-serif" font-size="14" fill="#666">No stock movements in this period</text>`+
		`</svg>`, sc.Width, sc.Height, sc.Width, sc.Height, sc.Width/2, sc.Height/2)
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;").Replace(s)
}
