package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-biorhythm/internal/biorhythm"
	"github.com/tartampluch/go-biorhythm/internal/config"
)

// Curve colors, in biorhythm.Cycles order.
var cycleColors = []color.Color{
	color.NRGBA{R: 0xe5, G: 0x39, B: 0x35, A: 0xff},
	color.NRGBA{R: 0x43, G: 0xa0, B: 0x47, A: 0xff},
	color.NRGBA{R: 0x1e, G: 0x88, B: 0xe5, A: 0xff},
}

// ChartWidget draws the three biorhythm curves of a series as polylines,
// with the zero line and a marker on today.
type ChartWidget struct {
	widget.BaseWidget

	series biorhythm.Series
	today  int
}

// NewChartWidget creates an empty chart.
func NewChartWidget() *ChartWidget {
	c := &ChartWidget{today: -1}
	c.ExtendBaseWidget(c)
	return c
}

// SetSeries replaces the plotted data. today is an index into series, or -1.
func (c *ChartWidget) SetSeries(series biorhythm.Series, today int) {
	c.series = series
	c.today = today
	c.Refresh()
}

// Series returns the plotted data.
func (c *ChartWidget) Series() biorhythm.Series {
	return c.series
}

// Today returns the index of the marked day, or -1.
func (c *ChartWidget) Today() int {
	return c.today
}

// CreateRenderer implements fyne.Widget.
func (c *ChartWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &chartRenderer{
		chart:      c,
		background: canvas.NewRectangle(theme.Color(theme.ColorNameInputBackground)),
		axis:       canvas.NewLine(theme.Color(theme.ColorNameDisabled)),
		marker:     canvas.NewLine(theme.Color(theme.ColorNamePrimary)),
	}
	r.axis.StrokeWidth = config.ChartAxisWidth
	r.marker.StrokeWidth = config.ChartAxisWidth
	r.rebuild()
	return r
}

type chartRenderer struct {
	chart      *ChartWidget
	background *canvas.Rectangle
	axis       *canvas.Line
	marker     *canvas.Line
	curves     [][]*canvas.Line // one segment per consecutive pair of days, per cycle
	objects    []fyne.CanvasObject
}

// rebuild allocates line segments to match the series length.
func (r *chartRenderer) rebuild() {
	segments := r.segments()
	r.curves = make([][]*canvas.Line, len(biorhythm.Cycles))
	r.objects = []fyne.CanvasObject{r.background, r.axis, r.marker}
	for i := range biorhythm.Cycles {
		lines := make([]*canvas.Line, segments)
		for j := range lines {
			l := canvas.NewLine(cycleColors[i])
			l.StrokeWidth = config.ChartStrokeWidth
			lines[j] = l
			r.objects = append(r.objects, l)
		}
		r.curves[i] = lines
	}
}

func (r *chartRenderer) segments() int {
	if n := len(r.chart.series); n > 1 {
		return n - 1
	}
	return 0
}

func (r *chartRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.background.Move(fyne.NewPos(0, 0))

	pad := float32(config.ChartPadding)
	w := size.Width - 2*pad
	h := size.Height - 2*pad
	mid := pad + h/2

	r.axis.Position1 = fyne.NewPos(pad, mid)
	r.axis.Position2 = fyne.NewPos(pad+w, mid)

	series := r.chart.series
	x := func(i int) float32 {
		if len(series) < 2 {
			return pad + w/2
		}
		return pad + w*float32(i)/float32(len(series)-1)
	}
	y := func(v float64) float32 {
		return mid - float32(v)*h/2
	}

	for ci, c := range biorhythm.Cycles {
		if len(r.curves[ci]) != r.segments() {
			break
		}
		for j, l := range r.curves[ci] {
			l.Position1 = fyne.NewPos(x(j), y(series[j].Value(c)))
			l.Position2 = fyne.NewPos(x(j+1), y(series[j+1].Value(c)))
		}
	}

	if today := r.chart.today; today >= 0 && today < len(series) {
		r.marker.Position1 = fyne.NewPos(x(today), pad)
		r.marker.Position2 = fyne.NewPos(x(today), pad+h)
		r.marker.Show()
	} else {
		r.marker.Hide()
	}
}

func (r *chartRenderer) MinSize() fyne.Size {
	return fyne.NewSize(config.ChartMinWidth, config.ChartMinHeight)
}

func (r *chartRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *chartRenderer) Refresh() {
	if len(r.curves[0]) != r.segments() {
		r.rebuild()
	}
	r.background.FillColor = theme.Color(theme.ColorNameInputBackground)
	r.axis.StrokeColor = theme.Color(theme.ColorNameDisabled)
	r.marker.StrokeColor = theme.Color(theme.ColorNamePrimary)
	r.Layout(r.chart.Size())
	canvas.Refresh(r.chart)
}

func (r *chartRenderer) Destroy() {}
