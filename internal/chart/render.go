package chart

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

const markerRadius = 5

// Style holds the colours and font used when painting a projection.
type Style struct {
	GradientTop     svg.Offcolor
	GradientBottom  svg.Offcolor
	LineColor       string
	LineOpacity     float64
	LineWidth       float64
	MarkerColor     string
	TextColor       string
	TextOpacity     float64
	FontFamily      string
	FontSize        int
	BackgroundColor string
}

// DefaultStyle is the dashboard's classic look: a purple gradient area
// under a white line, meant to sit on a dark card.
var DefaultStyle = Style{
	GradientTop:    svg.Offcolor{Offset: 0, Color: "rgb(102,126,234)", Opacity: 0.3},
	GradientBottom: svg.Offcolor{Offset: 100, Color: "rgb(118,75,162)", Opacity: 0.1},
	LineColor:      "rgb(255,255,255)",
	LineOpacity:    0.8,
	LineWidth:      3,
	MarkerColor:    "rgb(255,255,255)",
	TextColor:      "rgb(255,255,255)",
	TextOpacity:    0.9,
	FontFamily:     "SF Pro Display, sans-serif",
	FontSize:       12,
}

// StyleFor returns the style matching a dashboard theme. Unknown themes get
// DefaultStyle.
func StyleFor(theme string) Style {
	st := DefaultStyle
	switch theme {
	case "light":
		st.BackgroundColor = "rgb(245,247,250)"
		st.LineColor = "rgb(102,126,234)"
		st.MarkerColor = "rgb(102,126,234)"
		st.TextColor = "rgb(45,55,72)"
	case "dark":
		st.BackgroundColor = "rgb(26,32,44)"
	}
	return st
}

// RenderSVG paints p onto an SVG document of the surface's size.
func RenderSVG(w io.Writer, p Projection, s Surface, st Style) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if len(p.Points) == 0 {
		return ErrNoPoints
	}

	canvas := svg.New(w)
	canvas.Start(int(math.Round(s.Width)), int(math.Round(s.Height)))

	canvas.Def()
	areaGradient(canvas, px(s.Height), st.GradientTop, st.GradientBottom)
	canvas.DefEnd()

	if st.BackgroundColor != "" {
		canvas.Rect(0, 0, int(math.Round(s.Width)), int(math.Round(s.Height)), "fill:"+st.BackgroundColor)
	}

	canvas.Path(p.Fill.SVG(), "fill:url(#area);stroke:none")
	canvas.Path(p.Stroke.SVG(), fmt.Sprintf("fill:none;stroke:%s;stroke-opacity:%s;stroke-width:%s;stroke-linejoin:round",
		st.LineColor, formatFloat(st.LineOpacity), formatFloat(st.LineWidth)))

	text := fmt.Sprintf("fill:%s;fill-opacity:%s;font-family:%s;font-size:%dpx;text-anchor:middle",
		st.TextColor, formatFloat(st.TextOpacity), st.FontFamily, st.FontSize)
	for _, pt := range p.Points {
		canvas.Circle(px(pt.X), px(pt.Y), markerRadius, "fill:"+st.MarkerColor)
		canvas.Text(px(pt.ValueAnchor.X), px(pt.ValueAnchor.Y), fmt.Sprintf("%d°", pt.Display), text)
		canvas.Text(px(pt.LabelAnchor.X), px(pt.LabelAnchor.Y), pt.Label, text)
	}

	canvas.End()
	return nil
}

func px(v float64) int {
	return int(math.Round(v))
}

// areaGradient spans the whole canvas height in user space. svgo's
// LinearGradient only emits bounding-box percentages.
func areaGradient(canvas *svg.SVG, height int, stops ...svg.Offcolor) {
	fmt.Fprintf(canvas.Writer, `<linearGradient id="area" gradientUnits="userSpaceOnUse" x1="0" y1="0" x2="0" y2="%d">`+"\n", height)
	for _, stop := range stops {
		fmt.Fprintf(canvas.Writer, `<stop offset="%d%%" stop-color="%s" stop-opacity="%s"/>`+"\n",
			stop.Offset, stop.Color, formatFloat(stop.Opacity))
	}
	fmt.Fprintln(canvas.Writer, `</linearGradient>`)
}
