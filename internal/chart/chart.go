// Package chart lays out the dashboard area chart as SVG
// geometry. Rendering is left to the templates.
package chart

import (
	"math"
	"strconv"
	"strings"

	"titipsini/internal/core"
)

const (
	DefaultWidth  = 720
	DefaultHeight = 320

	padLeft   = 44
	padRight  = 12
	padTop    = 12
	padBottom = 28

	yTickCount = 5
	maxXLabels = 10
)

// Chart is the laid-out chart. Coordinates are SVG user units.
type Chart struct {
	Width, Height int
	Left, Top     float64
	Right, Bottom float64
	Max           int64
	YTicks        []Tick
	XTicks        []Tick
	Series        []Series
	Empty         bool
}

// Tick is an axis label at a position along its axis.
type Tick struct {
	Pos   float64
	Label string
	Show  bool
}

// Series is the geometry of one visible channel.
type Series struct {
	Channel core.Channel
	Label   string
	Color   string
	Line    string // polyline points
	Area    string // closed path
}

// Build lays out points at the default size.
func Build(points []core.SeriesPoint, legend Legend) Chart {
	return BuildSized(points, legend, DefaultWidth, DefaultHeight)
}

// BuildSized lays out points in a width x height canvas. The Y scale is
// taken over every channel, hidden or not, so toggling a channel never moves
// the others.
func BuildSized(points []core.SeriesPoint, legend Legend, width, height int) Chart {
	c := Chart{
		Width:  width,
		Height: height,
		Left:   padLeft,
		Top:    padTop,
		Right:  float64(width - padRight),
		Bottom: float64(height - padBottom),
	}
	if len(points) == 0 {
		c.Empty = true
		return c
	}

	var maxVal int64
	for _, p := range points {
		for _, ch := range core.Channels() {
			if v := p.Value(ch); v > maxVal {
				maxVal = v
			}
		}
	}
	c.Max = niceCeil(maxVal)

	for i := 0; i <= yTickCount; i++ {
		v := c.Max * int64(i) / yTickCount
		c.YTicks = append(c.YTicks, Tick{Pos: c.y(v), Label: strconv.FormatInt(v, 10), Show: true})
	}

	step := (len(points) + maxXLabels - 1) / maxXLabels
	for i, p := range points {
		c.XTicks = append(c.XTicks, Tick{Pos: c.x(i, len(points)), Label: p.Label, Show: i%step == 0})
	}

	for _, ch := range core.Channels() {
		if !legend.Visible(ch) {
			continue
		}
		c.Series = append(c.Series, c.layout(points, ch))
	}
	return c
}

func (c Chart) x(i, n int) float64 {
	if n == 1 {
		return (c.Left + c.Right) / 2
	}
	return c.Left + float64(i)*(c.Right-c.Left)/float64(n-1)
}

func (c Chart) y(v int64) float64 {
	if c.Max <= 0 {
		return c.Bottom
	}
	return c.Bottom - float64(v)/float64(c.Max)*(c.Bottom-c.Top)
}

func (c Chart) layout(points []core.SeriesPoint, ch core.Channel) Series {
	var line, area strings.Builder
	n := len(points)
	for i, p := range points {
		x, y := fmtCoord(c.x(i, n)), fmtCoord(c.y(p.Value(ch)))
		if i > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(x + "," + y)
		if i == 0 {
			area.WriteString("M" + x + "," + fmtCoord(c.Bottom) + " ")
		}
		area.WriteString("L" + x + "," + y + " ")
	}
	area.WriteString("L" + fmtCoord(c.x(n-1, n)) + "," + fmtCoord(c.Bottom) + " Z")
	return Series{
		Channel: ch,
		Label:   ch.Label(),
		Color:   ch.Color(),
		Line:    line.String(),
		Area:    area.String(),
	}
}

// niceCeil rounds v up to 1, 2 or 5 times a power of ten, and to a
// multiple of the tick count so tick labels stay integral.
func niceCeil(v int64) int64 {
	if v <= 0 {
		return yTickCount
	}
	exp := math.Pow(10, math.Floor(math.Log10(float64(v))))
	var nice float64
	for _, m := range []float64{1, 2, 5, 10} {
		if m*exp >= float64(v) {
			nice = m * exp
			break
		}
	}
	out := int64(nice)
	if r := out % yTickCount; r != 0 {
		out += yTickCount - r
	}
	return out
}

func fmtCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}
