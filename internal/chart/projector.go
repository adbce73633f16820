package chart

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/i474232898/weather-dashboard/internal/forecast"
)

const (
	// tempMargin pads the temperature range so points never touch the frame
	// and an all-equal series still spans a non-zero range.
	tempMargin = 5.0

	valueLabelOffset = 15.0
	dayLabelOffset   = 20.0
)

var (
	ErrInvalidSurface = errors.New("invalid drawing surface")
	ErrNoPoints       = errors.New("no points to project")
)

// Surface is the pixel area a chart is drawn on. Padding is reserved on all
// four sides of the plotted area.
type Surface struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`
}

// Validate rejects surfaces that leave no room to plot.
func (s Surface) Validate() error {
	switch {
	case !(s.Width > 0) || !(s.Height > 0) || math.IsInf(s.Width, 0) || math.IsInf(s.Height, 0):
		return fmt.Errorf("%w: size %vx%v", ErrInvalidSurface, s.Width, s.Height)
	case !(s.Padding >= 0) || math.IsInf(s.Padding, 0):
		return fmt.Errorf("%w: padding %v", ErrInvalidSurface, s.Padding)
	case s.Width-2*s.Padding <= 0 || s.Height-2*s.Padding <= 0:
		return fmt.Errorf("%w: padding %v leaves no plot area in %vx%v", ErrInvalidSurface, s.Padding, s.Width, s.Height)
	}
	return nil
}

// Baseline is the y coordinate of the bottom edge of the plotted area.
func (s Surface) Baseline() float64 {
	return s.Height - s.Padding
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Path is an ordered list of vertices, optionally closed back to the first.
type Path struct {
	Points []Point `json:"points"`
	Closed bool    `json:"closed"`
}

// SVG renders the path as an SVG path "d" attribute.
func (p Path) SVG() string {
	var b strings.Builder
	for i, pt := range p.Points {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString(" L")
		}
		b.WriteString(formatFloat(pt.X))
		b.WriteByte(' ')
		b.WriteString(formatFloat(pt.Y))
	}
	if p.Closed && len(p.Points) > 0 {
		b.WriteString(" Z")
	}
	return b.String()
}

// PlottedPoint is a DayPoint placed on a surface, together with the anchors
// for its temperature label (above) and day label (below the baseline).
type PlottedPoint struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Temperature float64 `json:"temperature"`
	Display     int     `json:"display"`
	Label       string  `json:"label"`
	ValueAnchor Point   `json:"valueAnchor"`
	LabelAnchor Point   `json:"labelAnchor"`
}

// Projection is the drawable geometry for one chart.
type Projection struct {
	Points   []PlottedPoint `json:"points"`
	Fill     Path           `json:"fill"`
	Stroke   Path           `json:"stroke"`
	Baseline float64        `json:"baseline"`
	MinTemp  float64        `json:"minTemp"`
	MaxTemp  float64        `json:"maxTemp"`
}

// Project maps points onto s. Points are spread evenly left to right; higher
// temperatures get smaller y values. A single point is centred horizontally.
func Project(points []forecast.DayPoint, s Surface) (Projection, error) {
	if err := s.Validate(); err != nil {
		return Projection{}, err
	}
	if len(points) == 0 {
		return Projection{}, ErrNoPoints
	}

	chartWidth := s.Width - 2*s.Padding
	chartHeight := s.Height - 2*s.Padding
	baseline := s.Baseline()

	lo, hi := points[0].Temperature, points[0].Temperature
	for _, p := range points[1:] {
		lo = math.Min(lo, p.Temperature)
		hi = math.Max(hi, p.Temperature)
	}
	minTemp := lo - tempMargin
	maxTemp := hi + tempMargin
	span := maxTemp - minTemp

	plotted := make([]PlottedPoint, len(points))
	vertices := make([]Point, len(points))
	for i, p := range points {
		var x float64
		if len(points) == 1 {
			x = s.Padding + chartWidth/2
		} else {
			x = s.Padding + float64(i)*chartWidth/float64(len(points)-1)
		}
		y := s.Padding + chartHeight - (p.Temperature-minTemp)/span*chartHeight

		plotted[i] = PlottedPoint{
			X:           x,
			Y:           y,
			Temperature: p.Temperature,
			Display:     p.Rounded(),
			Label:       p.Label,
			ValueAnchor: Point{X: x, Y: y - valueLabelOffset},
			LabelAnchor: Point{X: x, Y: baseline + dayLabelOffset},
		}
		vertices[i] = Point{X: x, Y: y}
	}

	fill := make([]Point, 0, len(vertices)+2)
	fill = append(fill, Point{X: vertices[0].X, Y: baseline})
	fill = append(fill, vertices...)
	fill = append(fill, Point{X: vertices[len(vertices)-1].X, Y: baseline})

	stroke := make([]Point, len(vertices))
	copy(stroke, vertices)

	return Projection{
		Points:   plotted,
		Fill:     Path{Points: fill, Closed: true},
		Stroke:   Path{Points: stroke},
		Baseline: baseline,
		MinTemp:  minTemp,
		MaxTemp:  maxTemp,
	}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
