package chart

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSVG(t *testing.T) {
	proj, err := Project(week, surface)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderSVG(&buf, proj, surface, DefaultStyle))

	out := buf.String()
	assert.Contains(t, out, `width="400"`)
	assert.Contains(t, out, `height="300"`)
	assert.Contains(t, out, `<linearGradient id="area" gradientUnits="userSpaceOnUse" x1="0" y1="0" x2="0" y2="300">`)
	assert.Contains(t, out, `<stop offset="0%" stop-color="rgb(102,126,234)" stop-opacity="0.3"/>`)
	assert.Contains(t, out, `<stop offset="100%" stop-color="rgb(118,75,162)" stop-opacity="0.1"/>`)
	assert.Contains(t, out, proj.Fill.SVG())
	assert.Contains(t, out, proj.Stroke.SVG())
	assert.Equal(t, 5, strings.Count(out, "<circle"))
	for _, p := range week {
		assert.Contains(t, out, ">"+p.Label+"<")
	}
	assert.Contains(t, out, "28°")
}

func TestRenderSVG_RejectsEmptyProjection(t *testing.T) {
	var buf bytes.Buffer

	err := RenderSVG(&buf, Projection{}, surface, DefaultStyle)

	assert.ErrorIs(t, err, ErrNoPoints)
	assert.Zero(t, buf.Len())
}

func TestStyleFor(t *testing.T) {
	assert.Equal(t, DefaultStyle, StyleFor("unknown"))
	assert.NotEqual(t, DefaultStyle.TextColor, StyleFor("light").TextColor)
	assert.NotEmpty(t, StyleFor("dark").BackgroundColor)
}
