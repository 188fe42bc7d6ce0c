package dashboard

import (
	"io"
	"math"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	PageTitle  = "Dashboard Energia"
	ChartTitle = "Demanda energética"
	YAxisName  = "Demanda total [MW]"

	SeriesActual   = "Demanda energética"
	SeriesForecast = "Proyección"
	SeriesUpper    = "Upper Bound"
	SeriesLower    = "Lower Bound"
	SeriesBand     = "Confidence band"

	colorActual   = "#188463"
	colorForecast = "#bbffeb"
	colorBound    = "#444"
	colorBand     = "rgba(242, 255, 251, 0.3)"
	colorHidden   = "transparent"

	bandStack = "confidence-band"

	// gap marker understood by echarts
	missingValue = "-"
)

// LineWindow generates an echart line chart of a window plotting the actual demand, the projection
// and the confidence band. The band is shaded by stacking its width on top of the smaller bound so it
// stays positive when a row carries inverted bounds.
func LineWindow(v View) *charts.Line {
	res := v.Result

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: PageTitle}),
		charts.WithTitleOpts(
			opts.Title{
				Title:    ChartTitle,
				Subtitle: subtitle(v),
			},
		),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: YAxisName}),
	)

	lineDataActual := make([]opts.LineData, 0, res.Len())
	lineDataForecast := make([]opts.LineData, 0, res.Len())
	lineDataUpper := make([]opts.LineData, 0, res.Len())
	lineDataLower := make([]opts.LineData, 0, res.Len())
	lineDataBase := make([]opts.LineData, 0, res.Len())
	lineDataBand := make([]opts.LineData, 0, res.Len())

	for i := 0; i < res.Len(); i++ {
		lineDataActual = append(lineDataActual, lineValue(res.Actual[i]))
		lineDataForecast = append(lineDataForecast, lineValue(res.Forecast[i]))
		lineDataUpper = append(lineDataUpper, lineValue(res.Upper[i]))
		lineDataLower = append(lineDataLower, lineValue(res.Lower[i]))
		lineDataBase = append(lineDataBase, lineValue(math.Min(res.Upper[i], res.Lower[i])))
		lineDataBand = append(lineDataBand, lineValue(math.Abs(res.Upper[i]-res.Lower[i])))
	}

	line.SetXAxis(formatTimes(res.T)).
		AddSeries(SeriesActual, lineDataActual,
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorActual}),
		).
		AddSeries(SeriesForecast, lineDataForecast,
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorForecast}),
		).
		AddSeries(SeriesUpper, lineDataUpper,
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorBound}),
		).
		AddSeries(SeriesLower, lineDataLower,
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorBound}),
		).
		// invisible base of the band
		AddSeries(bandStack, lineDataBase,
			charts.WithLineChartOpts(opts.LineChart{Stack: bandStack, ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorHidden}),
		).
		AddSeries(SeriesBand, lineDataBand,
			charts.WithLineChartOpts(opts.LineChart{Stack: bandStack, ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorHidden}),
			charts.WithAreaStyleOpts(opts.AreaStyle{Color: colorBand}),
		)
	return line
}

// RenderPage writes the full html page of a window to w.
func RenderPage(w io.Writer, v View) error {
	page := components.NewPage()
	page.PageTitle = PageTitle
	page.AddCharts(
		LineWindow(v),
	)
	return page.Render(w)
}

func subtitle(v View) string {
	parts := make([]string, 0, 2)
	if v.Message != "" {
		parts = append(parts, v.Message)
	}
	if len(v.Holidays) > 0 {
		names := make([]string, 0, len(v.Holidays))
		for _, h := range v.Holidays {
			names = append(names, h.Name)
		}
		parts = append(parts, "Holidays: "+strings.Join(names, ", "))
	}
	return strings.Join(parts, " | ")
}

func lineValue(v float64) opts.LineData {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return opts.LineData{Value: missingValue}
	}
	return opts.LineData{Value: v}
}
